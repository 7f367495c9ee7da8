package handlers

import "net/http"

// SessionGenerate starts a generation attempt from the Customize stage. The
// response is immediate; progress and the eventual stage land on the session
// and are polled via SessionGet.
func (a *App) SessionGenerate(w http.ResponseWriter, r *http.Request) {
	sess := a.session(w, r)
	if sess == nil {
		return
	}
	if err := a.Orchestrator.Generate(sess); err != nil {
		a.transitionError(w, err)
		return
	}
	a.json(w, http.StatusAccepted, sessionView(sess.Snapshot()))
}

// SessionRegenerate re-runs the full pipeline from the Results stage with the
// stored source image and request, replacing the result set wholesale on
// success. Same contract as SessionGenerate, different entry stage.
func (a *App) SessionRegenerate(w http.ResponseWriter, r *http.Request) {
	a.SessionGenerate(w, r)
}
