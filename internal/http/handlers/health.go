package handlers

import "net/http"

// Health reports liveness plus the number of active sessions, which is the
// only state this service holds.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": a.Sessions.Len(),
	})
}
