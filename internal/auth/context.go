package auth

import "context"

type contextKey struct{}

// Caller identifies the holder of a verified API token.
type Caller struct {
	// Fingerprint is a short, non-secret digest of the token, safe to log.
	Fingerprint string
	Remote      string
}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

func FromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(contextKey{}).(Caller)
	return c, ok
}

// Fingerprint returns the caller's token fingerprint, or "" when the request
// was not authenticated.
func Fingerprint(ctx context.Context) string {
	c, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return c.Fingerprint
}
