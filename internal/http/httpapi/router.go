package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"headshot/internal/http/handlers"
	"headshot/internal/middleware"
)

// Options carry the router-level configuration.
type Options struct {
	Logger             zerolog.Logger
	CORSAllowedOrigins []string
	// StaticDir, when set, serves the file-backed blob store under /static so
	// development uploads resolve to real URLs.
	StaticDir string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(opts.CORSAllowedOrigins),
		middleware.Logger(opts.Logger),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", app.SessionCreate)
		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", app.SessionGet)
			r.Post("/upload", app.SessionUpload)
			r.Get("/preview", app.SessionPreview)
			r.Post("/confirm", app.SessionConfirm)
			r.Patch("/request", app.SessionUpdateRequest)
			r.Post("/back", app.SessionBack)
			r.Post("/generate", app.SessionGenerate)
			r.Post("/regenerate", app.SessionRegenerate)
			r.Post("/reset", app.SessionReset)
			r.Get("/results/download", app.ResultsDownloadAll)
			r.Get("/results/{result_id}/download", app.ResultDownload)
		})
	})

	if opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
