package shared

import "context"

type tenantContextKey struct{}

// ContextWithTenant stores the tenant identifier in context.
func ContextWithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tenant)
}

// TenantFromContext extracts the tenant identifier from context.
func TenantFromContext(ctx context.Context) string {
	tenant, _ := ctx.Value(tenantContextKey{}).(string)
	return tenant
}
