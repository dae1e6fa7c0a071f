package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"statadvisor/app"
	"statadvisor/domain/core"
	"statadvisor/domain/recommendation"
	"statadvisor/internal/errors"
	detector "statadvisor/internal/structure"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"catalog_version": s.advisor.CatalogVersion(),
	})
}

func (s *Server) handleListMethods(w http.ResponseWriter, r *http.Request) {
	methods := s.advisor.Methods()
	if category := r.URL.Query().Get("category"); category != "" {
		filtered := make([]recommendation.MethodDescriptor, 0, len(methods))
		for _, m := range methods {
			if string(m.Category) == category {
				filtered = append(filtered, m)
			}
		}
		methods = filtered
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": s.advisor.CatalogVersion(),
		"methods": methods,
	})
}

func (s *Server) handleGetMethod(w http.ResponseWriter, r *http.Request) {
	m, err := s.advisor.Method(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ds, err := s.readDataset(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	profiles := s.advisor.Profile(ds)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fingerprint": ds.Fingerprint(),
		"rows":        ds.Len(),
		"profiles":    profiles,
		"facts":       detector.Detect(ds.Rows, profiles),
		"summary":     detector.Summarize(ds.Rows, profiles),
	})
}

func (s *Server) handleCorrelations(w http.ResponseWriter, r *http.Request) {
	ds, err := s.readDataset(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.advisor.Correlations(ds))
}

func (s *Server) handleOutliers(w http.ResponseWriter, r *http.Request) {
	ds, err := s.readDataset(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	report, err := s.advisor.Outliers(ds, chi.URLParam(r, "column"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	body, err := s.readRecommendRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	analysis, err := s.advisor.Recommend(r.Context(), app.RecommendRequest{
		Dataset:         body.Dataset,
		Purpose:         recommendation.Purpose(body.Purpose),
		ValueColumn:     body.ValueColumn,
		GroupColumn:     body.GroupColumn,
		Session:         body.Session,
		SkipAssumptions: body.SkipAssumptions,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	record, err := s.advisor.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleExplanation(w http.ResponseWriter, r *http.Request) {
	page, err := s.advisor.Explain(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, errors.InvalidInput("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	records, err := s.advisor.History(r.Context(), core.DatasetFingerprint(chi.URLParam(r, "fingerprint")), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []*recommendation.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleInvalidateSession(w http.ResponseWriter, r *http.Request) {
	s.advisor.InvalidateSession(chi.URLParam(r, "session"))
	w.WriteHeader(http.StatusNoContent)
}
