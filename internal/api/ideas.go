package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"trading-journal-go/internal/assets"
	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
)

// clearField lists slots to empty; it may repeat.
const clearField = "clear"

// ideaForm is a parsed idea submission. Header fields are nil when absent.
type ideaForm struct {
	date   *string
	pair   *string
	signal *string
	slots  map[string]assets.FieldValue
}

func (h *APIHandler) ideaRequest(r *http.Request) (*auth.User, journal.Ideas, error) {
	user, err := auth.UserFrom(r.Context())
	if err != nil {
		return nil, nil, err
	}
	book, ok := h.ideas[r.PathValue("kind")]
	if !ok {
		return nil, nil, notFound("unknown idea kind " + r.PathValue("kind"))
	}
	return user, book, nil
}

// parseIdeaForm reads a multipart or urlencoded submission. Per slot, a file
// part uploads, a non-empty text value keeps that URL, and listing the slot
// under "clear" empties it.
func (h *APIHandler) parseIdeaForm(w http.ResponseWriter, r *http.Request) (*ideaForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var files map[string][]*multipart.FileHeader
	err := r.ParseMultipartForm(h.maxUploadBytes)
	switch {
	case err == nil:
		files = r.MultipartForm.File
	case errors.Is(err, http.ErrNotMultipart):
		if err := r.ParseForm(); err != nil {
			return nil, formError(err)
		}
	default:
		return nil, formError(err)
	}

	form := &ideaForm{slots: make(map[string]assets.FieldValue)}
	for key, values := range r.PostForm {
		if len(values) == 0 {
			continue
		}
		v := values[0]
		switch key {
		case "date":
			form.date = &v
		case "pair":
			form.pair = &v
		case "signal":
			form.signal = &v
		case clearField:
			for _, field := range values {
				if err := form.set(field, assets.ClearSlot()); err != nil {
					return nil, err
				}
			}
		default:
			if v != "" {
				if err := form.set(key, assets.UseURL(v)); err != nil {
					return nil, err
				}
			}
		}
	}

	for field, headers := range files {
		if len(headers) == 0 {
			continue
		}
		file, err := readPart(field, headers[0])
		if err != nil {
			return nil, err
		}
		if err := form.set(field, assets.UploadFile(file)); err != nil {
			return nil, err
		}
	}
	return form, nil
}

func (f *ideaForm) set(field string, v assets.FieldValue) error {
	if prev, ok := f.slots[field]; ok && prev.Action() != v.Action() {
		return &journal.ValidationError{Field: field, Message: fmt.Sprintf("conflicting values: %s and %s", prev.Action(), v.Action())}
	}
	f.slots[field] = v
	return nil
}

func readPart(field string, fh *multipart.FileHeader) (assets.File, error) {
	if fh.Size == 0 {
		return assets.File{}, &journal.ValidationError{Field: field, Message: "empty file " + fh.Filename}
	}
	src, err := fh.Open()
	if err != nil {
		return assets.File{}, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return assets.File{}, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
	}
	return assets.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func formError(err error) error {
	var me *http.MaxBytesError
	if errors.As(err, &me) {
		return err
	}
	return badRequest("invalid form: " + err.Error())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *APIHandler) ListIdeasHandler(w http.ResponseWriter, r *http.Request) {
	user, book, err := h.ideaRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ideas, err := book.List(r.Context(), user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if ideas == nil {
		ideas = []models.Idea{}
	}
	h.writeJSON(w, http.StatusOK, ideas)
}

func (h *APIHandler) CreateIdeaHandler(w http.ResponseWriter, r *http.Request) {
	user, book, err := h.ideaRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	form, err := h.parseIdeaForm(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	idea, err := book.Create(r.Context(), user, journal.IdeaInput{
		Date:   deref(form.date),
		Pair:   deref(form.pair),
		Signal: models.Signal(deref(form.signal)),
		Slots:  form.slots,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, idea)
}

func (h *APIHandler) UpdateIdeaHandler(w http.ResponseWriter, r *http.Request) {
	user, book, err := h.ideaRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	form, err := h.parseIdeaForm(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	patch := journal.IdeaPatch{Date: form.date, Pair: form.pair, Slots: form.slots}
	if form.signal != nil {
		signal := models.Signal(*form.signal)
		patch.Signal = &signal
	}
	idea, err := book.Update(r.Context(), user, id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, idea)
}

func (h *APIHandler) DeleteIdeaHandler(w http.ResponseWriter, r *http.Request) {
	user, book, err := h.ideaRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := book.Delete(r.Context(), user, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
