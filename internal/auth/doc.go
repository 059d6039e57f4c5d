// Package auth provides bearer-token authentication for the console API.
//
// Tokens are HS256-signed JWTs carrying the caller identity in the "sub"
// claim. The HTTP middleware validates the Authorization header and puts
// the subject on the request context; handlers that care can read it back
// with SubjectFromContext.
//
// Auth is optional: when no secret is configured the server skips the
// middleware entirely, which is the expected mode for local development.
package auth
