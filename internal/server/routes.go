package server

import "net/http"

// Routes builds the request mux for the editor API and page.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", s.HandleUpload)
	mux.HandleFunc("POST /api/sessions/{id}/merge", s.HandleMerge)
	mux.HandleFunc("GET /api/sessions/{id}/export", s.HandleExport)
	mux.HandleFunc("GET /api/sessions/{id}/dataset.geojson", s.HandleDataset)
	mux.HandleFunc("GET /api/sessions/{id}/preview.webp", s.HandlePreview)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}
