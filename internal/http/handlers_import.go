package http

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"clubledger/internal/importer"
)

// openUpload extracts the uploaded CSV from a multipart form. Falls back to
// the raw request body when the request is not multipart.
func openUpload(w http.ResponseWriter, r *http.Request) (io.ReadCloser, bool) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, 32<<20)
		return r.Body, true
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form: " + err.Error()})
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file field"})
		return nil, false
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		file.Close()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "File must be a CSV"})
		return nil, false
	}
	return file, true
}

func (s *Server) runImport(w http.ResponseWriter, r *http.Request, do func(src io.Reader) (importer.Result, error)) {
	src, ok := openUpload(w, r)
	if !ok {
		return
	}
	defer src.Close()

	result, err := do(src)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleImportSeasons(w http.ResponseWriter, r *http.Request) {
	s.runImport(w, r, func(src io.Reader) (importer.Result, error) {
		return s.importer.ImportSeasons(r.Context(), src)
	})
}

func (s *Server) handleImportTeams(w http.ResponseWriter, r *http.Request) {
	s.runImport(w, r, func(src io.Reader) (importer.Result, error) {
		return s.importer.ImportTeams(r.Context(), src)
	})
}

func (s *Server) handleImportExpenses(w http.ResponseWriter, r *http.Request) {
	s.runImport(w, r, func(src io.Reader) (importer.Result, error) {
		return s.importer.ImportExpenses(r.Context(), src)
	})
}

func (s *Server) handleImportRevenues(w http.ResponseWriter, r *http.Request) {
	s.runImport(w, r, func(src io.Reader) (importer.Result, error) {
		return s.importer.ImportRevenues(r.Context(), src)
	})
}

// handleImportTemplate serves the CSV header template for an entity type.
func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	template, ok := importer.Templates()[entity]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("Template not found for %s", entity)})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_template.csv"`, entity))
	_, _ = w.Write([]byte(template))
}
