package i18n

import "context"

type storeKey struct{}

// WithStore attaches s to ctx.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext returns the store attached to ctx. Calling it outside a
// store's scope is a wiring error and panics.
func FromContext(ctx context.Context) *Store {
	if ctx != nil {
		if s, ok := ctx.Value(storeKey{}).(*Store); ok && s != nil {
			return s
		}
	}
	panic("i18n: FromContext called outside a localization store scope")
}

// Translator returns the Translate function of the store attached to ctx.
func Translator(ctx context.Context) func(string) string {
	return FromContext(ctx).Translate
}
