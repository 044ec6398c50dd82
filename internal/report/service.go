package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/signintech/gopdf"

	"vita/internal/assessment"
)

var ErrFontUnavailable = errors.New("no usable report font")

// DefaultFontPaths lists common DejaVuSans locations (the font carries both
// Latin and Arabic glyphs).
var DefaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

const (
	pageMarginX = 40.0
	textWidth   = 515.0
)

// Input is everything a report needs: the result, the answers it was
// computed from and the active language's translator.
type Input struct {
	Result      assessment.Result
	Answers     assessment.Answers
	Translate   func(string) string
	RTL         bool
	GeneratedAt time.Time
}

type Service struct {
	fontFamily string
	fontPaths  []string
	log        *slog.Logger
}

func NewService(fontFamily string, fontPaths []string, log *slog.Logger) *Service {
	if fontFamily == "" {
		fontFamily = "DejaVu"
	}
	if len(fontPaths) == 0 {
		fontPaths = DefaultFontPaths
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		fontFamily: fontFamily,
		fontPaths:  fontPaths,
		log:        log.With("component", "report"),
	}
}

// FontPath returns the first configured font file that exists.
func (s *Service) FontPath() (string, error) {
	for _, p := range s.fontPaths {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
	}
	return "", ErrFontUnavailable
}

// Render produces the PDF for in.
func (s *Service) Render(ctx context.Context, in Input) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := in.Translate
	if t == nil {
		t = func(key string) string { return key }
	}
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}

	fontPath, err := s.FontPath()
	if err != nil {
		return nil, err
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()
	if err := pdf.AddTTFFont(s.fontFamily, fontPath); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontUnavailable, fontPath, err)
	}

	w := &writer{pdf: &pdf, family: s.fontFamily, rtl: in.RTL}

	w.heading(20, t("report.title"))
	w.br(10)

	w.size(12)
	w.line(fmt.Sprintf("%s: %s", t("report.date"), in.GeneratedAt.Format("02.01.2006 15:04")))
	w.line(fmt.Sprintf("%s: %d%%", t("report.score"), in.Result.Score))
	w.line(fmt.Sprintf("%s: %s", t("report.level"), t(in.Result.LabelKey)))
	w.br(10)

	w.heading(14, t("report.answers"))
	w.size(11)
	for _, f := range assessment.AllFields() {
		w.paragraph(fmt.Sprintf("- %s: %s", t(f.LabelKey), f.Display(in.Answers, t)))
	}
	w.br(10)

	w.heading(14, t("riskCheck.recommendations"))
	w.size(11)
	for _, key := range in.Result.RecommendationKeys {
		w.paragraph("- " + t(key))
	}
	w.br(10)

	w.size(9)
	w.paragraph(t(in.Result.DisclaimerKey))

	if w.err != nil {
		return nil, fmt.Errorf("compose report: %w", w.err)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	s.log.Debug("report rendered", "bytes", buf.Len(), "band", in.Result.Band)
	return buf.Bytes(), nil
}

// writer keeps the first layout error so composition reads top to bottom.
type writer struct {
	pdf    *gopdf.GoPdf
	family string
	rtl    bool
	err    error
}

func (w *writer) size(pt float64) {
	if w.err != nil {
		return
	}
	w.err = w.pdf.SetFont(w.family, "", pt)
}

func (w *writer) heading(pt float64, text string) {
	w.size(pt)
	w.paragraph(text)
	w.br(4)
}

func (w *writer) line(text string) {
	if w.err != nil {
		return
	}
	w.pdf.SetX(pageMarginX)
	align := gopdf.Left
	if w.rtl {
		align = gopdf.Right
		text = visualRTL(text)
	}
	w.err = w.pdf.CellWithOption(&gopdf.Rect{W: textWidth, H: 14}, text, gopdf.CellOption{Align: align})
	w.br(16)
}

func (w *writer) paragraph(text string) {
	if w.err != nil {
		return
	}
	lines, err := w.pdf.SplitText(text, textWidth)
	if err != nil {
		w.err = err
		return
	}
	for _, l := range lines {
		w.line(l)
	}
}

func (w *writer) br(h float64) {
	if w.err != nil {
		return
	}
	w.pdf.Br(h)
}
