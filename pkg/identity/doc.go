// Package identity carries the authenticated caller through a request.
//
// The token middleware parses the bearer token, builds an Identity and
// stores it in the request context. Handlers read it back with Get and use
// IsAdmin, CanEdit and Can to decide what the caller may do.
//
//	id, ok := identity.Get(r.Context())
//	if !ok || !id.Can(identity.PermissionPublish) {
//	    // 403
//	}
package identity
