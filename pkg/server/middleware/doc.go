// Package middleware holds the HTTP middleware shared by the API routes:
// bearer token authentication, role and permission guards, and client
// address resolution behind trusted proxies.
package middleware
