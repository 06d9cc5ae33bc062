package assets

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	publicMarker = "/object/public/"
	unknownPair  = "UNKNOWN"
)

var pairReplacer = strings.NewReplacer("/", "-", "\\", "-", " ", "")

// ObjectKey builds the storage path for a slot upload:
// {owner}/{PAIR}_{unix millis}_{field}.{ext}
func ObjectKey(owner, pair, field, fileName, defaultExt string, at time.Time) string {
	pair = pairReplacer.Replace(strings.ToUpper(strings.TrimSpace(pair)))
	if pair == "" {
		pair = unknownPair
	}
	return fmt.Sprintf("%s/%s_%d_%s.%s", owner, pair, at.UnixMilli(), field, Extension(fileName, defaultExt))
}

// Extension returns the suffix of fileName without the dot, or fallback when
// the name has none.
func Extension(fileName, fallback string) string {
	ext := strings.TrimPrefix(path.Ext(fileName), ".")
	if ext == "" {
		return fallback
	}
	return ext
}

// EscapePath escapes each segment of an object path for use in a URL,
// keeping the separators. ObjectPath undoes it.
func EscapePath(p string) string {
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// ObjectPath recovers the storage path behind a public URL. It understands
// ".../object/public/{bucket}/{path}", then ".../{bucket}/{path}", and
// otherwise treats the URL path (or the bare string) as the storage path.
func ObjectPath(bucket, ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil && (u.Scheme != "" || strings.HasPrefix(ref, "/")) {
		p = u.Path
	}

	if i := strings.Index(p, publicMarker); i >= 0 {
		after := p[i+len(publicMarker):]
		if rest, ok := strings.CutPrefix(after, bucket+"/"); ok {
			return rest
		}
		// a different bucket name; drop it
		if _, rest, ok := strings.Cut(after, "/"); ok {
			return rest
		}
		return ""
	}

	if _, rest, ok := strings.Cut(p, "/"+bucket+"/"); ok {
		return rest
	}
	return strings.TrimPrefix(p, "/")
}
