package theme

import (
	"context"
	"errors"
)

// ErrNoProvider is the panic value when theme state is read outside a provider.
var ErrNoProvider = errors.New("theme: used outside of a theme provider")

type providerKey struct{}

// WithProvider returns a context carrying p.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// FromContext returns the provider installed by WithProvider. It panics with
// ErrNoProvider when there is none; reading the theme outside a provider is a bug.
func FromContext(ctx context.Context) *Provider {
	p, _ := ctx.Value(providerKey{}).(*Provider)
	return Must(p)
}

// Must panics with ErrNoProvider when p is nil.
func Must(p *Provider) *Provider {
	if p == nil {
		panic(ErrNoProvider)
	}
	return p
}
