// Package server exposes the editing pipeline over HTTP. Handlers drive the
// core only through the pipeline facade; all dataset state lives in sessions.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/geoforge/geoedit/internal/export"
	"github.com/geoforge/geoedit/internal/geodata"
	"github.com/geoforge/geoedit/internal/preview"
)

// HandleIndex serves the editor page.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.ViewerHTML))
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.ViewerHTML)
}

// HandleUpload ingests a dataset upload ("file" multipart field) and opens
// an editing session around the normalized dataset.
func (s *ServerContext) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.Config.MaxUploadMB<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONStatus(w, http.StatusBadRequest, map[string]interface{}{"error": "missing file field"})
		return
	}
	defer func() { _ = file.Close() }()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeJSONStatus(w, http.StatusBadRequest, map[string]interface{}{"error": "upload read failed"})
		return
	}

	ds, err := s.Pipeline.Load(raw, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}

	sess := s.newSession(ds)
	writeJSON(w, map[string]interface{}{
		"session":  sess.ID,
		"features": ds.FeatureCount(),
		"crs":      ds.CRS,
	})
}

// HandleMerge appends drawn geometries to the session dataset.
func (s *ServerContext) HandleMerge(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r.PathValue("id"))
	if sess == nil {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.Config.MaxUploadMB<<20))
	if err != nil {
		writeJSONStatus(w, http.StatusBadRequest, map[string]interface{}{"error": "merge payload read failed"})
		return
	}

	sess.mu.Lock()
	added, err := s.Pipeline.MergeDrawn(sess.dataset, body)
	count := sess.dataset.FeatureCount()
	sess.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{"appended": added, "features": count})
}

// HandleExport streams the serialized dataset as a download.
func (s *ServerContext) HandleExport(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r.PathValue("id"))
	if sess == nil {
		http.NotFound(w, r)
		return
	}

	f, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}

	sess.mu.Lock()
	res, err := s.Pipeline.Export(sess.dataset, f)
	sess.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", res.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	_, _ = w.Write(res.Data)
}

// HandleDataset returns the live dataset as canonical GeoJSON for the map
// view.
func (s *ServerContext) HandleDataset(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r.PathValue("id"))
	if sess == nil {
		http.NotFound(w, r)
		return
	}

	sess.mu.Lock()
	res, err := s.Pipeline.Export(sess.dataset, export.GeoJSON)
	sess.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(res.Data)
}

// HandlePreview renders the dataset thumbnail.
func (s *ServerContext) HandlePreview(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r.PathValue("id"))
	if sess == nil {
		http.NotFound(w, r)
		return
	}

	sess.mu.Lock()
	img, err := preview.Render(sess.dataset, s.Config.Preview.Width, s.Config.Preview.Height)
	sess.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("Preview rendering failed")
		http.Error(w, "preview rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img)
}

// writeError maps pipeline error kinds onto HTTP statuses. Input problems
// are the client's fault; only export failures count as server errors.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, geodata.ErrUnsupportedFormat),
		errors.Is(err, geodata.ErrMissingBundleComponent),
		errors.Is(err, geodata.ErrGeometryParse),
		errors.Is(err, geodata.ErrUnsupportedCRS):
		status = http.StatusUnprocessableEntity
	}

	log.Warn().Err(err).Int("status", status).Msg("Request failed")
	writeJSONStatus(w, status, map[string]interface{}{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}
