// Package plan provides the plan catalog: named bundles of resource limits
// and included feature keys that tenants subscribe to.
//
// A Limit is an explicit tagged value rather than a magic integer, so code
// can never accidentally compare usage against an "unlimited" sentinel:
//
//	limits := plan.Limits{
//	    Clients:  plan.Bounded(50),
//	    Coaches:  plan.Bounded(5),
//	    Sessions: plan.Unlimited(),
//	}
//
// On the wire a Limit still round-trips as a plain integer with -1 meaning
// unlimited, for compatibility with existing dashboards.
//
// Plans are looked up through the Catalog interface. NewMemoryCatalog serves
// tests and static deployments; LoadFile reads declarative plan definitions
// from a YAML file.
package plan
