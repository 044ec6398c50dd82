// Package i18n resolves display strings for the active language and keeps
// the host document's direction in step with it.
package i18n

import (
	"errors"
	"fmt"
	"slices"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

// State is the store's observable state.
type State struct {
	Language Language `json:"language"`
	IsRTL    bool     `json:"is_rtl"`
	Dir      string   `json:"dir"`
}

// Store is the localization store: the active language, its persisted
// choice and the document side effect. SetLanguage is the only mutator.
// A Store is not safe for concurrent use.
type Store struct {
	catalog   *Catalog
	prefs     Preferences
	doc       Document
	lang      Language
	observers []stateObserver
	nextObs   int
}

type stateObserver struct {
	id int
	fn func(State)
}

// NewStore resolves the persisted language (falling back to the default on
// a missing or invalid value) and applies it to doc. prefs and doc may be
// nil; a nil catalog is a wiring bug and panics.
func NewStore(cat *Catalog, prefs Preferences, doc Document) *Store {
	if cat == nil {
		panic("i18n: NewStore called with a nil catalog")
	}
	s := &Store{
		catalog: cat,
		prefs:   prefs,
		doc:     doc,
		lang:    DefaultLanguage,
	}
	if prefs != nil {
		if saved, ok := prefs.Load(StorageKey); ok {
			// A persisted value must be an exact language code.
			if lang := Language(saved); lang.Valid() {
				s.lang = lang
			}
		}
	}
	s.applyDocument()
	return s
}

func (s *Store) Language() Language { return s.lang }
func (s *Store) IsRTL() bool        { return s.lang.RTL() }
func (s *Store) Dir() string        { return s.lang.Dir() }
func (s *Store) Catalog() *Catalog  { return s.catalog }

func (s *Store) State() State {
	return State{Language: s.lang, IsRTL: s.lang.RTL(), Dir: s.lang.Dir()}
}

// SetLanguage switches the active language, persists it and updates the
// document. Setting the current language again reapplies the same effects.
// A persistence error is returned after the switch has taken effect.
func (s *Store) SetLanguage(lang Language) (State, error) {
	if !lang.Valid() {
		return s.State(), fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	s.lang = lang
	s.applyDocument()

	var err error
	if s.prefs != nil {
		if saveErr := s.prefs.Save(StorageKey, string(lang)); saveErr != nil {
			err = fmt.Errorf("persist language: %w", saveErr)
		}
	}

	state := s.State()
	for _, o := range slices.Clone(s.observers) {
		o.fn(state)
	}
	return state, err
}

// Translate returns the message for key in the active language, or key
// itself when the catalog has no such message.
func (s *Store) Translate(key string) string {
	if value, ok := s.catalog.Lookup(s.lang, key); ok {
		return value
	}
	return key
}

// T is shorthand for Translate.
func (s *Store) T(key string) string { return s.Translate(key) }

// Messages returns the full table of the active language.
func (s *Store) Messages() map[string]string {
	return s.catalog.Messages(s.lang)
}

// Subscribe registers fn to receive the state after every successful
// SetLanguage call, in registration order.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, stateObserver{id: id, fn: fn})
	return func() {
		s.observers = slices.DeleteFunc(s.observers, func(o stateObserver) bool { return o.id == id })
	}
}

func (s *Store) applyDocument() {
	if s.doc == nil {
		return
	}
	s.doc.SetDir(s.lang.Dir())
	s.doc.SetLang(string(s.lang))
}
