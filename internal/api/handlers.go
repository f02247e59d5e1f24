package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Nomadcxx/jellycache/internal/database"
	"github.com/Nomadcxx/jellycache/internal/logging"
	"github.com/Nomadcxx/jellycache/internal/metrics"
	"github.com/Nomadcxx/jellycache/internal/quality"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

const defaultVariantLimit = 100

// FingerprintResponse describes one request's quality fingerprint.
type FingerprintResponse struct {
	CacheKey      string            `json:"cacheKey"`
	Descriptor    map[string]string `json:"descriptor"`
	Score         float64           `json:"score"`
	Description   string            `json:"description"`
	EstimatedSize int64             `json:"estimatedSize"`
	Recorded      bool              `json:"recorded"`
}

// CompareRequest carries the two request URLs to compare.
type CompareRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

// CompareResponse reports whether two requests share a cache entry.
type CompareResponse struct {
	Equal  bool   `json:"equal"`
	KeyA   string `json:"keyA"`
	KeyB   string `json:"keyB"`
	Better string `json:"better"` // "a", "b" or "" when they rank equally
}

// UpstreamStatus is the upstream section of the health response.
type UpstreamStatus struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthCheck reports liveness, the registry size and upstream
// reachability when those are configured. An unreachable upstream does
// not fail the check.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"status": "ok"}
	if s.db != nil {
		if n, err := s.db.CountVariants(r.Context()); err == nil {
			resp["variants"] = n
			metrics.VariantsKnown.Set(float64(n))
		}
	}
	if s.upstream != nil {
		st := UpstreamStatus{URL: s.upstream.BaseURL()}
		info, err := s.upstream.GetPublicInfo(r.Context())
		if err != nil {
			st.Error = err.Error()
			metrics.UpstreamUp.Set(0)
			s.log.Warn("upstream unreachable", logging.F("url", st.URL), logging.F("error", err))
		} else {
			st.Reachable = true
			metrics.UpstreamUp.Set(1)
			st.Version = info.Version
		}
		resp["upstream"] = st
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetFingerprint fingerprints the URL given in the "url" parameter, or the
// request's own query parameters when "url" is absent.
func (s *Server) GetFingerprint(w http.ResponseWriter, r *http.Request) {
	var d quality.Descriptor
	if raw := r.URL.Query().Get("url"); raw != "" {
		d = s.extractor.Extract(raw)
	} else {
		d = s.extractor.ExtractRequest(r)
	}

	m := quality.Measure(d)
	metrics.ObserveFingerprint("api", m)
	s.log.Debug("fingerprint", logging.Fingerprint(d)...)

	resp := FingerprintResponse{
		CacheKey:      quality.CacheKey(d),
		Descriptor:    d.Strings(),
		Score:         m.Score,
		Description:   m.Description,
		EstimatedSize: m.EstimatedSize,
	}

	if s.db != nil && s.cfg.Database.RecordVariants {
		_, err := s.db.RecordVariant(r.Context(), d)
		switch {
		case errors.Is(err, database.ErrEmptyDescriptor):
		case err != nil:
			metrics.ObserveRecord(err)
			// The fingerprint is still valid without the registry.
			s.log.Warn("failed to record variant",
				logging.F("cache_key", resp.CacheKey),
				logging.F("error", err),
			)
		default:
			metrics.ObserveRecord(nil)
			resp.Recorded = true
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// CompareURLs reports whether two request URLs map to the same cache entry.
func (s *Server) CompareURLs(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON with fields a and b")
		return
	}
	if req.A == "" || req.B == "" {
		writeError(w, http.StatusBadRequest, "missing_url", "both a and b are required")
		return
	}

	a := s.extractor.Extract(req.A)
	b := s.extractor.Extract(req.B)

	resp := CompareResponse{
		Equal: quality.Equal(a, b),
		KeyA:  quality.CacheKey(a),
		KeyB:  quality.CacheKey(b),
	}
	switch quality.Compare(a, b) {
	case 1:
		resp.Better = "a"
	case -1:
		resp.Better = "b"
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListVariants returns registered variants, best first.
func (s *Server) ListVariants(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	limit := defaultVariantLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	variants, err := s.db.ListVariants(r.Context(), limit)
	if err != nil {
		s.log.Error("failed to list variants", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to list variants")
		return
	}
	if variants == nil {
		variants = []*database.Variant{}
	}

	writeJSON(w, http.StatusOK, variants)
}

// GetVariant returns a single registered variant.
func (s *Server) GetVariant(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	v, err := s.db.GetVariant(r.Context(), chi.URLParam(r, "key"))
	if errors.Is(err, database.ErrVariantNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "no variant with that cache key")
		return
	}
	if err != nil {
		s.log.Error("failed to load variant", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to load variant")
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// DeleteVariant removes a registered variant.
func (s *Server) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	err := s.db.DeleteVariant(r.Context(), chi.URLParam(r, "key"))
	if errors.Is(err, database.ErrVariantNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "no variant with that cache key")
		return
	}
	if err != nil {
		s.log.Error("failed to delete variant", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to delete variant")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireDB(w http.ResponseWriter) bool {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "registry_disabled", "variant registry is not configured")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
