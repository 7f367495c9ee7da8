package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"headshot/internal/export"
	"headshot/internal/upload"
	"headshot/internal/workflow"
)

// App bundles the collaborators the HTTP layer needs.
type App struct {
	Logger       zerolog.Logger
	Sessions     *workflow.Registry
	Orchestrator *workflow.Orchestrator
	Exporter     *export.Exporter
	Validator    *upload.Validator
	Previews     *upload.PreviewStore
}

func NewApp(logger zerolog.Logger, sessions *workflow.Registry, orch *workflow.Orchestrator, exporter *export.Exporter, validator *upload.Validator, previews *upload.PreviewStore) *App {
	return &App{
		Logger:       logger,
		Sessions:     sessions,
		Orchestrator: orch,
		Exporter:     exporter,
		Validator:    validator,
		Previews:     previews,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}
