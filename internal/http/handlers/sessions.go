package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"headshot/internal/domain"
	"headshot/internal/workflow"
)

type resultResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type sessionResponse struct {
	ID         string           `json:"id"`
	Stage      string           `json:"stage"`
	HasSource  bool             `json:"has_source"`
	Filename   string           `json:"filename,omitempty"`
	PreviewURL string           `json:"preview_url,omitempty"`
	Style      string           `json:"style"`
	FreeText   string           `json:"free_text,omitempty"`
	Quantity   int              `json:"quantity"`
	Progress   int              `json:"progress"`
	Results    []resultResponse `json:"results,omitempty"`
	Notice     string           `json:"notice,omitempty"`
}

func sessionView(v workflow.View) sessionResponse {
	resp := sessionResponse{
		ID:        v.ID,
		Stage:     string(v.Stage),
		HasSource: v.HasSource,
		Filename:  v.Filename,
		Style:     string(v.Request.Style),
		FreeText:  v.Request.FreeText,
		Quantity:  v.Request.Quantity,
		Progress:  v.Progress,
		Notice:    v.Notice,
	}
	if v.PreviewID != "" {
		resp.PreviewURL = fmt.Sprintf("/v1/sessions/%s/preview", v.ID)
	}
	for _, r := range v.Results {
		resp.Results = append(resp.Results, resultResponse{ID: r.ID, URL: r.URL})
	}
	return resp
}

func (a *App) session(w http.ResponseWriter, r *http.Request) *workflow.Session {
	id := chi.URLParam(r, "session_id")
	sess, err := a.Sessions.Get(id)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return nil
	}
	return sess
}

func (a *App) SessionCreate(w http.ResponseWriter, r *http.Request) {
	sess := a.Sessions.Create()
	a.json(w, http.StatusCreated, sessionView(sess.Snapshot()))
}

func (a *App) SessionGet(w http.ResponseWriter, r *http.Request) {
	sess := a.session(w, r)
	if sess == nil {
		return
	}
	a.json(w, http.StatusOK, sessionView(sess.Snapshot()))
}

func (a *App) SessionConfirm(w http.ResponseWriter, r *http.Request) {
	sess := a.session(w, r)
	if sess == nil {
		return
	}
	if err := sess.Confirm(); err != nil {
		a.transitionError(w, err)
		return
	}
	a.json(w, http.StatusOK, sessionView(sess.Snapshot()))
}

type requestUpdatePayload struct {
	Style    *string `json:"style"`
	FreeText *string `json:"free_text"`
	Quantity *int    `json:"quantity"`
}

func (a *App) SessionUpdateRequest(w http.ResponseWriter, r *http.Request) {
	sess := a.session(w, r)
	if sess == nil {
		return
	}
	var payload requestUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	err := sess.UpdateRequest(workflow.RequestUpdate{
		Style:    payload.Style,
		FreeText: payload.FreeText,
		Quantity: payload.Quantity,
	})
	if err != nil {
		a.transitionError(w, err)
		return
	}
	a.json(w, http.StatusOK, sessionView(sess.Snapshot()))
}

func (a *App) SessionBack(w http.ResponseWriter, r *http.Request) {
	sess := a.session(w, r)
	if sess == nil {
		return
	}
	if err := sess.Back(); err != nil {
		a.transitionError(w, err)
		return
	}
	a.json(w, http.StatusOK, sessionView(sess.Snapshot()))
}

func (a *App) SessionReset(w http.ResponseWriter, r *http.Request) {
	sess := a.session(w, r)
	if sess == nil {
		return
	}
	sess.Reset()
	a.json(w, http.StatusOK, sessionView(sess.Snapshot()))
}

// transitionError maps workflow errors onto the HTTP taxonomy: blocked
// transitions and busy sessions are conflicts, missing prerequisites are bad
// requests.
func (a *App) transitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrGenerationInFlight):
		a.error(w, http.StatusConflict, "generation_in_flight", "a generation is already running")
	case errors.Is(err, domain.ErrInvalidTransition):
		a.error(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrNoSourceImage):
		a.error(w, http.StatusBadRequest, "no_source_image", "upload a source image first")
	default:
		a.error(w, http.StatusInternalServerError, "internal", "unexpected error")
	}
}
