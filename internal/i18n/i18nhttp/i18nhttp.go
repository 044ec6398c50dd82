// Package i18nhttp scopes a localization store to each HTTP request, with the
// language choice persisted in a cookie.
package i18nhttp

import (
	"context"
	"net/http"
	"time"

	"vita/internal/i18n"
)

// CookieName is the cookie the language choice is stored in.
const CookieName = i18n.StorageKey

const cookieMaxAge = 365 * 24 * time.Hour

// CookiePreferences is an i18n.Preferences backed by request cookies.
// Saved values are written as Set-Cookie headers and are visible to later
// loads on the same request.
type CookiePreferences struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool
	saved  map[string]string
}

func NewCookiePreferences(w http.ResponseWriter, r *http.Request, secure bool) *CookiePreferences {
	return &CookiePreferences{r: r, w: w, secure: secure, saved: map[string]string{}}
}

func (p *CookiePreferences) Load(key string) (string, bool) {
	if v, ok := p.saved[key]; ok {
		return v, true
	}
	if p.r == nil {
		return "", false
	}
	c, err := p.r.Cookie(key)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (p *CookiePreferences) Save(key, value string) error {
	p.saved[key] = value
	if p.w == nil {
		return nil
	}
	http.SetCookie(p.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Options configures Middleware.
type Options struct {
	SecureCookie bool
}

// Middleware gives every request its own store over the shared catalog and
// attaches it to the request context.
func Middleware(cat *i18n.Catalog, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prefs := NewCookiePreferences(w, r, opts.SecureCookie)
			doc := &i18n.Attributes{}
			store := i18n.NewStore(cat, prefs, doc)
			store.Subscribe(func(s i18n.State) {
				w.Header().Set("Content-Language", string(s.Language))
			})
			w.Header().Set("Content-Language", string(store.Language()))

			ctx := i18n.WithStore(r.Context(), store)
			ctx = withDocument(ctx, doc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type documentKey struct{}

func withDocument(ctx context.Context, doc *i18n.Attributes) context.Context {
	return context.WithValue(ctx, documentKey{}, doc)
}

// Document returns the document attributes maintained by the request's
// store. Like i18n.FromContext it panics outside the middleware.
func Document(r *http.Request) *i18n.Attributes {
	if doc, ok := r.Context().Value(documentKey{}).(*i18n.Attributes); ok && doc != nil {
		return doc
	}
	panic("i18nhttp: Document called outside the i18n middleware")
}

// Store returns the request's localization store.
func Store(r *http.Request) *i18n.Store {
	return i18n.FromContext(r.Context())
}
