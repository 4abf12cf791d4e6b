// Package server provides the local HTTP listener that catches the OAuth
// authorization redirect.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] receives the ?code=...&state=... redirect for the
// interactive flows. It validates the state parameter (CSRF protection),
// hands the authorization code to the bound [auth.Flow] for exchange,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user runs `rataify auth login`, a temporary HTTP server starts
// on the configured redirect address, handles the callback, and shuts
// down after delivering the OAuth result.
package server
