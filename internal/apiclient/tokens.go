package apiclient

import "context"

// TokenHolder is the session state the transport reads bearer tokens from
// and writes refreshed tokens back to.
type TokenHolder interface {
	AccessToken() string
	RefreshToken() string
	UpdateTokens(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}

type tokenHolderKey struct{}

// WithTokens attaches h to ctx so requests made with ctx are authenticated.
func WithTokens(ctx context.Context, h TokenHolder) context.Context {
	if h == nil {
		return ctx
	}
	return context.WithValue(ctx, tokenHolderKey{}, h)
}

// TokensFrom returns the holder attached by WithTokens, or nil.
func TokensFrom(ctx context.Context) TokenHolder {
	h, _ := ctx.Value(tokenHolderKey{}).(TokenHolder)
	return h
}
