// Package assets decides which object-store operations a chart-slot edit
// needs and what value each slot ends up holding.
package assets

import "fmt"

// Action is what a submitted form asks for one slot.
type Action int

const (
	// Unchanged leaves the slot out of the write entirely.
	Unchanged Action = iota
	// Upload stores a new file and points the slot at it.
	Upload
	// Clear empties the slot.
	Clear
	// SetURL writes an already-uploaded URL as is.
	SetURL
)

func (a Action) String() string {
	switch a {
	case Unchanged:
		return "unchanged"
	case Upload:
		return "upload"
	case Clear:
		return "clear"
	case SetURL:
		return "set-url"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// File is an in-memory payload awaiting upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FieldValue is the submitted state of one slot. The zero value is Unchanged.
type FieldValue struct {
	action Action
	url    string
	file   File
}

// Keep returns an Unchanged value.
func Keep() FieldValue { return FieldValue{} }

// UploadFile returns a value that uploads f.
func UploadFile(f File) FieldValue { return FieldValue{action: Upload, file: f} }

// ClearSlot returns a value that empties the slot.
func ClearSlot() FieldValue { return FieldValue{action: Clear} }

// UseURL returns a value that persists url unchanged.
func UseURL(url string) FieldValue { return FieldValue{action: SetURL, url: url} }

func (v FieldValue) Action() Action { return v.action }

// URL is set for SetURL values.
func (v FieldValue) URL() string { return v.url }

// File is set for Upload values.
func (v FieldValue) File() File { return v.file }
