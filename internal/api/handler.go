package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vita/internal/assessment"
	"vita/internal/i18n"
	"vita/internal/i18n/i18nhttp"
	"vita/internal/report"
)

// ReportRenderer produces the downloadable PDF.
type ReportRenderer interface {
	Render(ctx context.Context, in report.Input) ([]byte, error)
}

type Handler struct {
	svc     assessment.Service
	reports ReportRenderer
	log     *slog.Logger
}

func NewHandler(svc assessment.Service, reports ReportRenderer, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, reports: reports, log: log.With("component", "api")}
}

type stepView struct {
	Step     assessment.Step `json:"step"`
	Title    string          `json:"title"`
	Current  bool            `json:"current"`
	Complete bool            `json:"complete"`
}

type resultView struct {
	Score           int             `json:"score"`
	Band            assessment.Band `json:"band"`
	Label           string          `json:"label"`
	Recommendations []string        `json:"recommendations"`
	Disclaimer      string          `json:"disclaimer"`
}

type assessmentResponse struct {
	ID       uuid.UUID           `json:"id"`
	Snapshot assessment.Snapshot `json:"snapshot"`
	Heading  string              `json:"heading"`
	Steps    []stepView          `json:"steps"`
	Result   *resultView         `json:"result,omitempty"`
}

type languageRequest struct {
	Language string `json:"language"`
}

type catalogResponse struct {
	i18n.State
	Messages map[string]string `json:"messages"`
}

func (h *Handler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	id, snap, err := h.svc.Start(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.view(r, id, snap))
}

func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	snap, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, id, snap))
}

func (h *Handler) UpdateAnswers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var in assessment.StepInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.badRequest(w, r, "errors.badRequest")
		return
	}
	snap, err := h.svc.Answer(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, id, snap))
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.svc.Advance)
}

func (h *Handler) Retreat(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.svc.Retreat)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.svc.Reset)
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request, move func(context.Context, uuid.UUID) (assessment.Snapshot, error)) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	snap, err := move(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, id, snap))
}

func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	res, _, err := h.svc.Result(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, localizeResult(i18nhttp.Store(r), res))
}

func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	res, answers, err := h.svc.Result(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	store := i18nhttp.Store(r)
	pdf, err := h.reports.Render(r.Context(), report.Input{
		Result:      res,
		Answers:     answers,
		Translate:   store.Translate,
		RTL:         store.IsRTL(),
		GeneratedAt: time.Now(),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WritePDF(w, id, pdf)
}

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	store := i18nhttp.Store(r)
	writeJSON(w, http.StatusOK, catalogResponse{State: store.State(), Messages: store.Messages()})
}

func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "errors.badRequest")
		return
	}
	lang, ok := i18n.ParseLanguage(req.Language)
	if !ok {
		h.badRequest(w, r, "errors.unsupportedLanguage")
		return
	}
	state, err := i18nhttp.Store(r).SetLanguage(lang)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) view(r *http.Request, id uuid.UUID, snap assessment.Snapshot) assessmentResponse {
	store := i18nhttp.Store(r)
	resp := assessmentResponse{
		ID:       id,
		Snapshot: snap,
		Heading:  store.Translate(snap.Step.HeadingKey()),
	}
	for _, s := range assessment.Steps() {
		resp.Steps = append(resp.Steps, stepView{
			Step:     s,
			Title:    store.Translate(s.TitleKey()),
			Current:  s == snap.Step,
			Complete: s < snap.Step,
		})
	}
	if snap.Result != nil {
		v := localizeResult(store, *snap.Result)
		resp.Result = &v
	}
	return resp
}

func localizeResult(store *i18n.Store, res assessment.Result) resultView {
	v := resultView{
		Score:      res.Score,
		Band:       res.Band,
		Label:      store.Translate(res.LabelKey),
		Disclaimer: store.Translate(res.DisclaimerKey),
	}
	for _, key := range res.RecommendationKeys {
		v.Recommendations = append(v.Recommendations, store.Translate(key))
	}
	return v
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, assessment.ErrSessionNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, key string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: i18nhttp.Store(r).Translate(key)})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: i18nhttp.Store(r).Translate(MessageKey(err))})
}

type errorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, assessment.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, assessment.ErrInvalidAnswer), errors.Is(err, i18n.ErrUnsupportedLanguage):
		return http.StatusBadRequest
	case errors.Is(err, assessment.ErrResetUnavailable), errors.Is(err, assessment.ErrNotAtResults):
		return http.StatusConflict
	case errors.Is(err, report.ErrFontUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// MessageKey returns the translation key shown to the visitor for err.
func MessageKey(err error) string {
	switch {
	case errors.Is(err, i18n.ErrUnsupportedLanguage):
		return "errors.unsupportedLanguage"
	case errors.Is(err, report.ErrFontUnavailable):
		return "errors.reportUnavailable"
	default:
		return assessment.MessageKey(err)
	}
}

// WritePDF sends a report as an attachment.
func WritePDF(w http.ResponseWriter, id uuid.UUID, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="vita-report-`+id.String()+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/assessments", h.CreateAssessment)
	r.Get("/assessments/{id}", h.GetAssessment)
	r.Patch("/assessments/{id}/answers", h.UpdateAnswers)
	r.Post("/assessments/{id}/advance", h.Advance)
	r.Post("/assessments/{id}/retreat", h.Retreat)
	r.Post("/assessments/{id}/reset", h.Reset)
	r.Get("/assessments/{id}/result", h.GetResult)
	r.Get("/assessments/{id}/report", h.DownloadReport)
	r.Get("/i18n", h.GetCatalog)
	r.Put("/language", h.SetLanguage)
}
