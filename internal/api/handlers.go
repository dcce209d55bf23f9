package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"funnelscope/domain/core"
	"funnelscope/domain/imports"
	"funnelscope/internal/dataset"
	"funnelscope/internal/display"
	apperrors "funnelscope/internal/errors"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFunnelUpload(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, imports.KindFunnel)
}

func (s *Server) handleDatasetUpload(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, imports.KindDataset)
}

// handleUpload stores the multipart file, imports it and removes the stored
// copy again.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, kind imports.Kind) {
	ctx := r.Context()
	if s.config.MaxUploadBytes > 0 {
		// room for the multipart envelope around the file
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes+1<<20)
	}

	file, header, err := r.FormFile(FileField)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Code: apperrors.CodeInvalidInput, Error: "upload is too large"})
			return
		}
		s.writeError(w, apperrors.InvalidInput(fmt.Sprintf("multipart field %q is required", FileField)))
		return
	}
	defer file.Close()

	stored, err := s.storage.Store(ctx, header.Filename, file)
	if err != nil {
		if errors.Is(err, dataset.ErrFileTooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Code: apperrors.CodeInvalidInput, Error: err.Error()})
			return
		}
		s.writeError(w, apperrors.Wrap(err, "failed to store upload"))
		return
	}
	defer func() {
		if err := s.storage.Remove(ctx, stored.Path); err != nil {
			s.logger.Warn("cleanup of %s failed: %v", stored.Path, err)
		}
	}()

	rc, err := s.storage.Open(ctx, stored.Path)
	if err != nil {
		s.writeError(w, apperrors.Wrap(err, "failed to open stored upload"))
		return
	}
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		s.writeError(w, apperrors.Wrap(err, "failed to read stored upload"))
		return
	}

	s.logger.Debug("%s upload %s stored as %s (%d bytes)", kind, header.Filename, stored.Path, stored.Size)
	result, err := s.service.Import(ctx, kind, header.Filename, content)
	if err != nil {
		s.writeError(w, err)
		return
	}

	status := http.StatusOK
	if result.Persisted {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, err := imports.ParseKind(q.Get("kind"))
	if err != nil {
		s.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		s.writeError(w, apperrors.InvalidInput("limit must be a non-negative integer"))
		return
	}
	offset, err := queryInt(q.Get("offset"))
	if err != nil {
		s.writeError(w, apperrors.InvalidInput("offset must be a non-negative integer"))
		return
	}

	recs, err := s.service.List(r.Context(), imports.Filters{Kind: kind, Limit: limit, Offset: offset})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"imports": recs, "count": len(recs)})
}

func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	rec, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleExportFunnel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	out, err := s.service.ExportFunnelCSV(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id.String()+".csv"))
	io.WriteString(w, out)
}

// formatRequest asks for the presentation text of one stored value.
type formatRequest struct {
	Column string      `json:"column"`
	Value  interface{} `json:"value"`
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.InvalidInput("request body must be JSON with column and value"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": display.Format(req.Column, req.Value)})
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (core.ID, bool) {
	id, err := core.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, apperrors.InvalidInput("invalid import id"))
		return "", false
	}
	return id, true
}

func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return n, nil
}
