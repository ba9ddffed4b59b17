package httpserver

import (
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/domain/bulk"
	"github.com/bryanwahyu/satyacheck/internal/middleware"
)

type contentBody struct {
	Content  string `json:"content"`
	Language string `json:"language"`
}

func (b *contentBody) validate() (string, error) {
	b.Content = middleware.SanitizeString(b.Content)
	if err := middleware.ValidateContent(b.Content, maxContentRunes); err != nil {
		return "", invalid(err.Error())
	}
	return langOrDefault(b.Language)
}

// POST /api/analyze
// Body: {"content": "...", "contentType": "TEXT", "language": "en"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body domain.AnalysisRequest
	if err := decode(w, req, &body); err != nil {
		return err
	}
	cb := contentBody{Content: body.Content, Language: body.Language}
	lang, err := cb.validate()
	if err != nil {
		return err
	}
	body.Content, body.Language = cb.Content, lang

	res, err := r.d.Facts.AnalyzeText(req.Context(), body)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/v1/enhanced-analysis/comprehensive
func (r *Router) handleComprehensive(w http.ResponseWriter, req *http.Request) error {
	var body contentBody
	if err := decode(w, req, &body); err != nil {
		return err
	}
	lang, err := body.validate()
	if err != nil {
		return err
	}
	res, err := r.d.Analysis.AnalyzeComprehensively(req.Context(), body.Content, lang)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/v1/enhanced-analysis/misinformation
func (r *Router) handleMisinformation(w http.ResponseWriter, req *http.Request) error {
	var body contentBody
	if err := decode(w, req, &body); err != nil {
		return err
	}
	lang, err := body.validate()
	if err != nil {
		return err
	}
	res, err := r.d.Analysis.AnalyzeMisinformationPatterns(req.Context(), body.Content, lang)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/v1/enhanced-analysis/url
// Body: {"url": "https://..."}
func (r *Router) handleURL(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	if err := r.checkPublicURL(body.URL); err != nil {
		return err
	}
	res, err := r.d.Analysis.AnalyzeURL(req.Context(), body.URL)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// checkPublicURL rejects internal targets once the scheme has been defaulted.
func (r *Router) checkPublicURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return invalid("url is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	if err := middleware.ValidateURL(raw); err != nil {
		return invalid(err.Error())
	}
	return nil
}

// POST /api/v1/enhanced-analysis/cross-language
// Body: {"content": "...", "targetLanguages": ["en", "hi"]}
func (r *Router) handleCrossLanguage(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Content         string   `json:"content"`
		TargetLanguages []string `json:"targetLanguages"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	cb := contentBody{Content: body.Content}
	if _, err := cb.validate(); err != nil {
		return err
	}
	for _, t := range body.TargetLanguages {
		if err := middleware.ValidateLanguageCode(t); err != nil {
			return invalid(err.Error())
		}
	}
	res, err := r.d.Analysis.AnalyzeCrossLanguage(req.Context(), cb.Content, body.TargetLanguages)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/v1/enhanced-analysis/image
// Accepts multipart/form-data (field "image", optional "language") or a JSON
// body {"image": "<base64>", "language": "en"}.
func (r *Router) handleImage(w http.ResponseWriter, req *http.Request) error {
	var (
		image []byte
		lang  string
	)
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		req.Body = http.MaxBytesReader(w, req.Body, maxImageBytes+1<<20)
		if err := req.ParseMultipartForm(maxImageBytes); err != nil {
			return invalid("invalid multipart body: " + err.Error())
		}
		f, _, err := req.FormFile("image")
		if err != nil {
			return invalid("image file is required")
		}
		defer f.Close()
		image, err = io.ReadAll(io.LimitReader(f, maxImageBytes+1))
		if err != nil {
			return err
		}
		lang = req.FormValue("language")
	} else {
		var body struct {
			Image    string `json:"image"`
			Language string `json:"language"`
		}
		if err := decode(w, req, &body); err != nil {
			return err
		}
		var err error
		image, err = base64.StdEncoding.DecodeString(body.Image)
		if err != nil {
			return invalid("image must be base64 encoded")
		}
		lang = body.Language
	}

	if len(image) == 0 {
		return invalid("image is empty")
	}
	if len(image) > maxImageBytes {
		return invalid("image exceeds " + strconv.Itoa(maxImageBytes>>20) + "MB")
	}
	lang, err := langOrDefault(lang)
	if err != nil {
		return err
	}

	res, err := r.d.Analysis.AnalyzeImage(req.Context(), image, lang)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/v1/bulk-analysis/content
// Body: {"items": [{"id": "a", "content": "...", "language": "en"}]}
func (r *Router) handleBulkContent(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Items []bulk.ContentItem `json:"items"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateBatchSize(len(body.Items), r.d.MaxBatch); err != nil {
		return invalid(err.Error())
	}
	res, err := r.d.Bulk.AnalyzeContent(req.Context(), body.Items)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/v1/bulk-analysis/urls
// Body: {"items": [{"id": "a", "url": "https://..."}]}
func (r *Router) handleBulkURLs(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Items []bulk.URLItem `json:"items"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateBatchSize(len(body.Items), r.d.MaxBatch); err != nil {
		return invalid(err.Error())
	}
	for _, it := range body.Items {
		if err := r.checkPublicURL(it.URL); err != nil {
			return invalid("item " + it.ID + ": " + err.Error())
		}
	}
	res, err := r.d.Bulk.AnalyzeURLs(req.Context(), body.Items)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /api/v1/bulk-analysis/{batchId}/outcomes?limit=100
func (r *Router) handleBatchOutcomes(w http.ResponseWriter, req *http.Request) error {
	if r.d.Outcomes == nil {
		return domain.ErrUnsupported
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.d.Outcomes.ListByBatch(req.Context(), chi.URLParam(req, "batchId"), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/v1/analyses?verdict=&language=&days=7&limit=20
func (r *Router) handleRecent(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	days, _ := strconv.Atoi(q.Get("days"))

	f := domain.RecordFilter{
		Verdict:  domain.Verdict(strings.ToUpper(q.Get("verdict"))),
		Language: q.Get("language"),
		Since:    time.Now().AddDate(0, 0, -middleware.ValidateDays(days)),
		Limit:    middleware.ValidateLimit(limit),
	}
	if f.Verdict != "" && !f.Verdict.Valid() {
		return invalid("unknown verdict: " + string(f.Verdict))
	}
	list, err := r.d.Facts.Recent(req.Context(), f)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}
