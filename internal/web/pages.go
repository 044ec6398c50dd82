package web

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vita/internal/api"
	"vita/internal/assessment"
	"vita/internal/i18n"
	"vita/internal/i18n/i18nhttp"
	"vita/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("layout.html").
		Funcs(template.FuncMap{
			// Replaced per request with the store's Translate.
			"t": func(key string) string { return key },
		}).
		ParseFS(templateFS, "templates/*.html"),
)

// Pages serves the server-rendered wizard.
type Pages struct {
	svc     assessment.Service
	reports api.ReportRenderer
	log     *slog.Logger
}

func NewPages(svc assessment.Service, reports api.ReportRenderer, log *slog.Logger) *Pages {
	if log == nil {
		log = slog.Default()
	}
	return &Pages{svc: svc, reports: reports, log: log.With("component", "web")}
}

type fieldView struct {
	assessment.Field
	Current  string
	Shown    string
	IsText   bool
	IsChoice bool
	IsRange  bool
}

type stepLink struct {
	Number int
	Title  string
	Active bool
}

type pageData struct {
	Lang        string
	Dir         string
	SwitchTo    string
	Suggested   bool
	ReturnPath  string
	SessionID   string
	Step        int
	StepTitle   string
	Heading     string
	Progress    int
	Steps       []stepLink
	Fields      []fieldView
	CanAdvance  bool
	CanRetreat  bool
	CanReset    bool
	SubmitLabel string
	Result      *assessment.Result
	Error       string
}

// Start mounts a fresh wizard and renders its first step.
func (p *Pages) Start(w http.ResponseWriter, r *http.Request) {
	id, snap, err := p.svc.Start(r.Context())
	if err != nil {
		p.renderError(w, r, err)
		return
	}
	p.render(w, r, http.StatusOK, id, snap, "")
}

// Show renders the current step of an existing session, e.g. after a
// language switch.
func (p *Pages) Show(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		p.renderError(w, r, assessment.ErrSessionNotFound)
		return
	}
	snap, err := p.svc.Get(r.Context(), id)
	if err != nil {
		p.renderError(w, r, err)
		return
	}
	p.render(w, r, http.StatusOK, id, snap, "")
}

// Submit applies the posted answers for the current step and performs the
// requested navigation action.
func (p *Pages) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		p.renderError(w, r, assessment.ErrSessionNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		p.renderError(w, r, assessment.ErrInvalidAnswer)
		return
	}

	snap, err := p.svc.Get(r.Context(), id)
	if err != nil {
		p.renderError(w, r, err)
		return
	}

	in, err := formInput(snap.Step, r.PostForm)
	if err == nil && !in.Empty() {
		snap, err = p.svc.Answer(r.Context(), id, in)
	}
	if err != nil {
		status := api.StatusFor(err)
		p.render(w, r, status, id, snap, i18nhttp.Store(r).Translate(api.MessageKey(err)))
		return
	}

	switch r.PostForm.Get("action") {
	case "next":
		snap, err = p.svc.Advance(r.Context(), id)
	case "back":
		snap, err = p.svc.Retreat(r.Context(), id)
	case "reset":
		snap, err = p.svc.Reset(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, assessment.ErrSessionNotFound) {
			p.renderError(w, r, err)
			return
		}
		p.render(w, r, api.StatusFor(err), id, snap, i18nhttp.Store(r).Translate(api.MessageKey(err)))
		return
	}
	p.render(w, r, http.StatusOK, id, snap, "")
}

// Report streams the PDF for a finished assessment.
func (p *Pages) Report(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		p.renderError(w, r, assessment.ErrSessionNotFound)
		return
	}
	res, answers, err := p.svc.Result(r.Context(), id)
	if err != nil {
		p.renderError(w, r, err)
		return
	}
	store := i18nhttp.Store(r)
	pdf, err := p.reports.Render(r.Context(), report.Input{
		Result:      res,
		Answers:     answers,
		Translate:   store.Translate,
		RTL:         store.IsRTL(),
		GeneratedAt: time.Now(),
	})
	if err != nil {
		p.renderError(w, r, err)
		return
	}
	api.WritePDF(w, id, pdf)
}

// SetLanguage switches the language and sends the visitor back to the page
// they came from. Only local paths are accepted as the return target.
func (p *Pages) SetLanguage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	lang, ok := i18n.ParseLanguage(r.PostForm.Get("lang"))
	if !ok {
		http.Error(w, i18nhttp.Store(r).Translate("errors.unsupportedLanguage"), http.StatusBadRequest)
		return
	}
	if _, err := i18nhttp.Store(r).SetLanguage(lang); err != nil {
		p.log.Warn("language not persisted", "error", err)
	}
	http.Redirect(w, r, safeReturnPath(r.PostForm.Get("return")), http.StatusSeeOther)
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, id uuid.UUID, snap assessment.Snapshot, errMsg string) {
	store := i18nhttp.Store(r)
	doc := i18nhttp.Document(r)

	data := pageData{
		Lang:       doc.Lang,
		Dir:        doc.Dir,
		SwitchTo:   string(store.Language().Other()),
		ReturnPath: "/risk-check/" + id.String(),
		SessionID:  id.String(),
		Step:       int(snap.Step),
		StepTitle:  store.Translate(snap.Step.TitleKey()),
		Heading:    store.Translate(snap.Step.HeadingKey()),
		Progress:   snap.Progress,
		CanAdvance: snap.CanAdvance,
		CanRetreat: snap.CanRetreat,
		CanReset:   snap.CanReset,
		Result:     snap.Result,
		Error:      errMsg,
	}
	data.Suggested = suggestSwitch(r, store)
	data.SubmitLabel = store.Translate("riskCheck.next")
	if snap.Step == assessment.StepDiet {
		data.SubmitLabel = store.Translate(assessment.StepResults.TitleKey())
	}
	for _, s := range assessment.Steps() {
		data.Steps = append(data.Steps, stepLink{
			Number: int(s),
			Title:  store.Translate(s.TitleKey()),
			Active: s <= snap.Step,
		})
	}
	for _, f := range assessment.FieldsFor(snap.Step) {
		data.Fields = append(data.Fields, fieldView{
			Field:    f,
			Current:  f.Value(snap.Answers),
			Shown:    f.Display(snap.Answers, store.Translate),
			IsText:   f.Kind == assessment.FieldText,
			IsChoice: f.Kind == assessment.FieldChoice,
			IsRange:  f.Kind == assessment.FieldRange,
		})
	}
	p.execute(w, store, status, "wizard", data)
}

func (p *Pages) renderError(w http.ResponseWriter, r *http.Request, err error) {
	store := i18nhttp.Store(r)
	doc := i18nhttp.Document(r)
	status := api.StatusFor(err)
	if status >= http.StatusInternalServerError {
		p.log.Error("page failed", "path", r.URL.Path, "error", err)
	}
	p.execute(w, store, status, "error", pageData{
		Lang:       doc.Lang,
		Dir:        doc.Dir,
		SwitchTo:   string(store.Language().Other()),
		ReturnPath: "/risk-check",
		Error:      store.Translate(api.MessageKey(err)),
	})
}

func (p *Pages) execute(w http.ResponseWriter, store *i18n.Store, status int, name string, data pageData) {
	tmpl, err := pageTemplate.Clone()
	if err != nil {
		p.log.Error("clone template", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	tmpl.Funcs(template.FuncMap{"t": store.Translate})

	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		p.log.Error("render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

// suggestSwitch reports whether the browser prefers the other language
// while no choice has been made yet.
func suggestSwitch(r *http.Request, store *i18n.Store) bool {
	if _, err := r.Cookie(i18nhttp.CookieName); err == nil {
		return false
	}
	return i18n.MatchAcceptLanguage(r.Header.Get("Accept-Language")) != store.Language()
}

// formInput collects the posted fields that belong to step.
func formInput(step assessment.Step, form url.Values) (assessment.StepInput, error) {
	var in assessment.StepInput
	for _, f := range assessment.FieldsFor(step) {
		if !form.Has(f.Name) {
			continue
		}
		fin, err := f.Input(form.Get(f.Name))
		if err != nil {
			return in, err
		}
		in = merge(in, fin)
	}
	return in, nil
}

func merge(a, b assessment.StepInput) assessment.StepInput {
	if b.Age != nil {
		a.Age = b.Age
	}
	if b.Gender != "" {
		a.Gender = b.Gender
	}
	if b.WeightKg != nil {
		a.WeightKg = b.WeightKg
	}
	if b.HeightCm != nil {
		a.HeightCm = b.HeightCm
	}
	if b.FamilyHistory != "" {
		a.FamilyHistory = b.FamilyHistory
	}
	if b.HighBloodPressure != "" {
		a.HighBloodPressure = b.HighBloodPressure
	}
	if b.ExerciseDaysPerWeek != nil {
		a.ExerciseDaysPerWeek = b.ExerciseDaysPerWeek
	}
	if b.Smoking != "" {
		a.Smoking = b.Smoking
	}
	if b.SugaryDrinks != "" {
		a.SugaryDrinks = b.SugaryDrinks
	}
	if b.SleepHoursPerNight != nil {
		a.SleepHoursPerNight = b.SleepHoursPerNight
	}
	return a
}

func safeReturnPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || raw == "" || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(raw, "//") {
		return "/risk-check"
	}
	return u.RequestURI()
}
