package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"headshot/internal/domain"
	"headshot/pkg/zip"
)

func (a *App) ResultDownload(w http.ResponseWriter, r *http.Request) {
	sess := a.session(w, r)
	if sess == nil {
		return
	}
	resultID := chi.URLParam(r, "result_id")
	var target *domain.GeneratedResult
	for _, res := range sess.Results() {
		if res.ID == resultID {
			target = &res
			break
		}
	}
	if target == nil {
		a.error(w, http.StatusNotFound, "not_found", "result not found")
		return
	}

	download, err := a.Exporter.ExportOne(r.Context(), *target)
	if err != nil {
		a.Logger.Warn().Err(err).Str("result_id", resultID).Msg("result export failed")
		a.error(w, http.StatusBadGateway, "export_failed", "failed to fetch result content")
		return
	}
	serveAttachment(w, download.Filename, download.MIME, download.Data)
}

// ResultsDownloadAll bundles every result into one zip. The underlying fetch
// loop aborts on the first failure; there is no partial-success reporting.
func (a *App) ResultsDownloadAll(w http.ResponseWriter, r *http.Request) {
	sess := a.session(w, r)
	if sess == nil {
		return
	}
	results := sess.Results()
	if len(results) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no results to download")
		return
	}

	downloads, err := a.Exporter.ExportAll(r.Context(), results)
	if err != nil {
		a.Logger.Warn().Err(err).Str("session_id", sess.ID).Msg("bulk export failed")
		a.error(w, http.StatusBadGateway, "export_failed", "failed to fetch result content")
		return
	}

	assets := make([]zip.Asset, len(downloads))
	for i, d := range downloads {
		assets[i] = zip.Asset{Filename: d.Filename, MIME: d.MIME, Data: d.Data}
	}
	archive, err := zip.ArchiveAssets(assets)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	serveAttachment(w, fmt.Sprintf("headshots-%s.zip", sess.ID), "application/zip", archive)
}

func serveAttachment(w http.ResponseWriter, filename, mime string, data []byte) {
	if mime == "" {
		mime = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
