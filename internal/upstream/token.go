package upstream

import (
	"context"
	"strings"
)

// TokenSource supplies the bearer token attached to outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) string
}

// StaticToken always returns the same token. The CLI and the worker use it.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) string {
	return strings.TrimSpace(string(t))
}

type tokenContextKey struct{}

// WithToken stores a bearer token in the context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token stored by WithToken.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey{}).(string)
	return token
}

type contextTokens struct{}

func (contextTokens) Token(ctx context.Context) string {
	return TokenFromContext(ctx)
}

// ContextTokens reads the token placed on the request context by the session
// middleware.
func ContextTokens() TokenSource {
	return contextTokens{}
}

type chain []TokenSource

func (c chain) Token(ctx context.Context) string {
	for _, src := range c {
		if src == nil {
			continue
		}
		if token := src.Token(ctx); token != "" {
			return token
		}
	}
	return ""
}

// ChainTokens returns the first non-empty token among sources.
func ChainTokens(sources ...TokenSource) TokenSource {
	return chain(sources)
}
