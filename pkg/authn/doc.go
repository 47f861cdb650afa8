// Package authn signs people in.
//
// A profile authenticates with its email and an API key. Keys are random,
// shown once, and stored only as bcrypt hashes. A successful sign-in
// returns an HS256 access token whose claims carry the profile's role and
// permission flags; the token middleware turns those claims back into an
// identity.Identity on every request.
package authn
