// Package feature resolves feature flags for tenants with a three-level
// precedence chain: tenant override, then plan inclusion, then the flag's
// global default.
//
// A plan never forces a feature off. Inclusion in the tenant's plan enables
// the flag; absence merely falls through to the flag's DefaultEnabled. Only
// an explicit tenant override can pin a flag in either direction.
//
// Flags may declare dependencies on other flags. Enabling a flag for a
// tenant requires every dependency to resolve enabled for that tenant at
// that moment. Dependency graphs are validated to be acyclic when flags are
// created or updated, so resolution never has to guard against cycles.
//
//	resolver := feature.NewResolver(flags, assignments, tenants, catalog, nil)
//	on, err := resolver.IsEnabled(ctx, tenantID, "video_consults")
package feature
