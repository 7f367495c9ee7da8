package handlers

import (
	"errors"
	"io"
	"net/http"

	"headshot/internal/domain"
	"headshot/internal/upload"
)

// multipartSlack leaves room for form boundaries and headers on top of the
// payload ceiling so an exactly-10MB image still parses.
const multipartSlack = 1 << 20

func (a *App) SessionUpload(w http.ResponseWriter, r *http.Request) {
	sess := a.session(w, r)
	if sess == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxUploadBytes+multipartSlack)
	if err := r.ParseMultipartForm(upload.MaxUploadBytes + multipartSlack); err != nil {
		// An over-limit body surfaces here as a MaxBytesError; report it the
		// same way the validator reports an oversized payload.
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			a.error(w, http.StatusBadRequest, "file_too_large", "file exceeds the 10MB limit")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read file")
		return
	}

	img, err := a.Validator.Validate(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		a.validationError(w, err)
		return
	}
	if err := sess.AttachSource(img); err != nil {
		// The image never entered the session; revoke its preview reference.
		a.Previews.Release(img.PreviewID)
		a.transitionError(w, err)
		return
	}
	a.json(w, http.StatusOK, sessionView(sess.Snapshot()))
}

func (a *App) SessionPreview(w http.ResponseWriter, r *http.Request) {
	sess := a.session(w, r)
	if sess == nil {
		return
	}
	v := sess.Snapshot()
	if v.PreviewID == "" {
		a.error(w, http.StatusNotFound, "not_found", "no preview available")
		return
	}
	preview, ok := a.Previews.Get(v.PreviewID)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "preview reference released")
		return
	}
	w.Header().Set("Content-Type", preview.MIME)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(preview.Data)
}

func (a *App) validationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrFileTooLarge):
		a.error(w, http.StatusBadRequest, "file_too_large", "file exceeds the 10MB limit")
	case errors.Is(err, domain.ErrUnsupportedType):
		a.error(w, http.StatusBadRequest, "unsupported_type", "only image files are accepted")
	default:
		a.error(w, http.StatusBadRequest, "validation_failed", err.Error())
	}
}
