// Package assess runs the risk check as an interactive terminal wizard.
package assess

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vita/internal/assessment"
	"vita/internal/i18n"
)

type options struct {
	prefsPath string
	lang      string
}

func NewCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run the risk check in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore(opts)
			if err != nil {
				return err
			}
			return NewSession(store, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		},
	}

	cmd.Flags().StringVar(&opts.prefsPath, "prefs", "", "Preferences file (default $XDG_CONFIG_HOME/vita/preferences.yaml)")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "Switch to this language before starting (en, ar)")

	return cmd
}

func newStore(opts *options) (*i18n.Store, error) {
	path := opts.prefsPath
	if path == "" {
		p, err := i18n.DefaultPreferencesPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve preferences path: %w", err)
		}
		path = p
	}
	store := i18n.NewStore(i18n.DefaultCatalog(), i18n.NewFilePreferences(path), &i18n.Attributes{})
	if opts.lang != "" {
		lang, ok := i18n.ParseLanguage(opts.lang)
		if !ok {
			return nil, fmt.Errorf("%w: %q", i18n.ErrUnsupportedLanguage, opts.lang)
		}
		if _, err := store.SetLanguage(lang); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Session is one terminal run of the wizard. The store and the wizard are
// owned by the session and only touched from Run.
type Session struct {
	store  *i18n.Store
	wizard *assessment.Wizard
	in     *bufio.Scanner
	out    io.Writer
}

func NewSession(store *i18n.Store, in io.Reader, out io.Writer) *Session {
	return &Session{
		store:  store,
		wizard: assessment.New(),
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

func (s *Session) Wizard() *assessment.Wizard { return s.wizard }

type outcome int

const (
	stepDone outcome = iota
	stepBack
	quit
)

// Run drives the wizard until the user quits, declines to start over or
// input ends.
func (s *Session) Run() error {
	s.println(s.t("riskCheck.title"))
	s.println(s.t("cli.prompt.commands"))

	for {
		step := s.wizard.Step()
		if step == assessment.StepResults {
			s.printResult()
			again, ok := s.confirm(s.t("cli.prompt.startOver"))
			if !ok || !again {
				return nil
			}
			if _, err := s.wizard.Reset(); err != nil {
				return err
			}
			continue
		}

		switch s.askStep(step) {
		case quit:
			return nil
		case stepBack:
			s.wizard.Retreat()
		case stepDone:
			s.wizard.Advance()
		}
	}
}

func (s *Session) askStep(step assessment.Step) outcome {
	s.println("")
	s.printf("[%d/%d] %s: %s\n", step, assessment.StepCount, s.t(step.TitleKey()), s.t(step.HeadingKey()))

	fields := assessment.FieldsFor(step)
	for i := 0; i < len(fields); {
		f := fields[i]
		s.prompt(f)
		line, ok := s.readLine()
		if !ok {
			return quit
		}

		switch {
		case line == ":quit":
			return quit
		case line == ":back":
			return stepBack
		case strings.HasPrefix(line, ":lang"):
			s.switchLanguage(strings.TrimSpace(strings.TrimPrefix(line, ":lang")))
			continue
		case line == "":
			i++
			continue
		}

		if err := s.answer(f, line); err != nil {
			if f.Kind == assessment.FieldChoice {
				s.println(s.t("cli.invalid"))
			} else {
				s.println(s.t(assessment.MessageKey(err)))
			}
			continue
		}
		i++
	}
	return stepDone
}

func (s *Session) answer(f assessment.Field, line string) error {
	raw := line
	if f.Kind == assessment.FieldChoice {
		v, ok := choose(f, line)
		if !ok {
			return assessment.ErrInvalidAnswer
		}
		raw = v
	}
	in, err := f.Input(raw)
	if err != nil {
		return err
	}
	_, err = s.wizard.Apply(in)
	return err
}

// choose accepts an option by its 1-based number or by its value.
func choose(f assessment.Field, line string) (string, bool) {
	if n, err := strconv.Atoi(line); err == nil {
		if n >= 1 && n <= len(f.Options) {
			return f.Options[n-1].Value, true
		}
		return "", false
	}
	for _, o := range f.Options {
		if strings.EqualFold(o.Value, line) {
			return o.Value, true
		}
	}
	return "", false
}

func (s *Session) switchLanguage(code string) {
	lang, ok := i18n.ParseLanguage(code)
	if !ok {
		s.println(s.t("errors.unsupportedLanguage"))
		return
	}
	if _, err := s.store.SetLanguage(lang); err != nil {
		// The switch already took effect; only persisting failed.
		s.printf("%s (%v)\n", s.t("errors.internal"), err)
	}
}

func (s *Session) prompt(f assessment.Field) {
	answers := s.wizard.Answers()
	s.printf("%s\n", s.t(f.LabelKey))
	switch f.Kind {
	case assessment.FieldChoice:
		for i, o := range f.Options {
			s.printf("  %d) %s\n", i+1, s.t(o.LabelKey))
		}
		s.printf("%s [%s, %s]: ", s.t("cli.prompt.choose"), f.Display(answers, s.t), s.t("cli.prompt.keep"))
	case assessment.FieldRange:
		s.printf("%g-%g %s [%s, %s]: ", f.Min, f.Max, s.t(f.UnitKey), f.Display(answers, s.t), s.t("cli.prompt.keep"))
	default:
		s.printf("%s [%s, %s]: ", s.t(f.PlaceholderKey), f.Display(answers, s.t), s.t("cli.prompt.keep"))
	}
}

func (s *Session) printResult() {
	res, ok := s.wizard.Result()
	if !ok {
		return
	}
	s.println("")
	s.println(s.t("riskCheck.results"))
	s.printf("%d%% %s\n", res.Score, s.t(res.LabelKey))
	s.println(s.t("riskCheck.recommendations"))
	for _, key := range res.RecommendationKeys {
		s.printf("  - %s\n", s.t(key))
	}
	s.println(s.t(res.DisclaimerKey))
}

func (s *Session) confirm(question string) (yes, answered bool) {
	for {
		s.printf("%s ", question)
		line, ok := s.readLine()
		if !ok || line == ":quit" {
			return false, false
		}
		if strings.HasPrefix(line, ":lang") {
			s.switchLanguage(strings.TrimSpace(strings.TrimPrefix(line, ":lang")))
			continue
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, true
		case "n", "no", "":
			return false, true
		}
	}
}

func (s *Session) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Session) t(key string) string { return s.store.Translate(key) }

func (s *Session) println(text string) { _, _ = fmt.Fprintln(s.out, text) }

func (s *Session) printf(format string, args ...any) { _, _ = fmt.Fprintf(s.out, format, args...) }
