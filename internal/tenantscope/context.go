package tenantscope

import "context"

type tenantKey struct{}

// NewContext returns a context bound to the given tenant. Every database
// operation issued with this context is scoped to that tenant by the plugin.
// The binding lives on the context itself, so concurrent requests can never
// observe each other's tenant.
func NewContext(parent context.Context, tenantID uint) context.Context {
	return context.WithValue(parent, tenantKey{}, tenantID)
}

// FromContext reports the tenant bound to the context, if any. An unbound
// context is the pre-authentication state: queries run unscoped, which is
// required for the login-by-email lookup.
func FromContext(ctx context.Context) (uint, bool) {
	tenantID, ok := ctx.Value(tenantKey{}).(uint)
	return tenantID, ok
}
