package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/satyacheck/internal/application/language"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/logger"
	"github.com/bryanwahyu/satyacheck/internal/middleware"
)

// POST /api/v1/language/detect
// Body: {"text": "..."}
func (r *Router) handleDetectLanguage(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateContent(body.Text, maxContentRunes); err != nil {
		return invalid(err.Error())
	}

	det := language.Detect(body.Text)
	if r.d.Detector != nil {
		code, err := r.d.Detector.DetectLanguage(req.Context(), body.Text)
		switch {
		case err != nil:
			r.log.Warn("provider language detection failed, using heuristic", logger.Error(err))
		case code != "":
			info := language.Lookup(code)
			det = language.Detection{Code: info.Code, Name: info.Name, Confidence: 0.95, Supported: info.Supported}
		}
	}
	return writeJSON(w, http.StatusOK, det)
}

// POST /api/v1/language/translate
// Body: {"text": "...", "sourceLanguage": "hi", "targetLanguage": "en"}
func (r *Router) handleTranslate(w http.ResponseWriter, req *http.Request) error {
	if r.d.Detector == nil {
		return domain.ErrUnsupported
	}
	var body struct {
		Text   string `json:"text"`
		Source string `json:"sourceLanguage"`
		Target string `json:"targetLanguage"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateContent(body.Text, maxContentRunes); err != nil {
		return invalid(err.Error())
	}
	src, err := langOrDefault(body.Source)
	if err != nil {
		return err
	}
	if body.Target == "" {
		return invalid("targetLanguage is required")
	}
	dst, err := langOrDefault(body.Target)
	if err != nil {
		return err
	}
	src, dst = language.Normalize(src), language.Normalize(dst)

	out, err := r.d.Detector.Translate(req.Context(), body.Text, src, dst)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{
		"originalText":   body.Text,
		"translatedText": out,
		"sourceLanguage": src,
		"targetLanguage": dst,
	})
}

// GET /api/v1/language/supported
func (r *Router) handleSupportedLanguages(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, language.Supported())
}

// GET /api/v1/language/support/{code}
func (r *Router) handleLanguageSupport(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, language.Lookup(chi.URLParam(req, "code")))
}

// GET /api/v1/models/current
func (r *Router) handleCurrentModel(w http.ResponseWriter, req *http.Request) error {
	if r.d.Models == nil {
		return domain.ErrUnsupported
	}
	model, ok := r.d.Models.CachedModel()
	return writeJSON(w, http.StatusOK, map[string]any{
		"model":  model,
		"cached": ok,
	})
}

// POST /api/v1/models/refresh
func (r *Router) handleRefreshModel(w http.ResponseWriter, req *http.Request) error {
	if r.d.Models == nil {
		return domain.ErrUnsupported
	}
	model := r.d.Models.Refresh(req.Context(), r.d.AIKey)
	return writeJSON(w, http.StatusOK, map[string]any{
		"model":       model,
		"refreshedAt": time.Now().UTC(),
	})
}

// GET /api/admin/cache/stats
func (r *Router) handleCacheStats(w http.ResponseWriter, req *http.Request) error {
	if r.d.Caches == nil {
		return domain.ErrUnsupported
	}
	return writeJSON(w, http.StatusOK, r.d.Caches.Stats())
}

// DELETE /api/admin/cache
func (r *Router) handleClearCaches(w http.ResponseWriter, req *http.Request) error {
	if r.d.Caches == nil {
		return domain.ErrUnsupported
	}
	r.d.Caches.ClearAll(req.Context())
	r.log.Info("all caches cleared", logger.String("client", middleware.GetClientFromContext(req.Context())))
	return writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// DELETE /api/admin/cache/{name}
func (r *Router) handleClearCache(w http.ResponseWriter, req *http.Request) error {
	if r.d.Caches == nil {
		return domain.ErrUnsupported
	}
	name := chi.URLParam(req, "name")
	if !r.d.Caches.Clear(req.Context(), name) {
		return writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown cache: " + name})
	}
	r.log.Info("cache cleared", logger.String("cache", name))
	return writeJSON(w, http.StatusOK, map[string]string{"status": "cleared", "cache": name})
}
