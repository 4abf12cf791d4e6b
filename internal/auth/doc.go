// Package auth implements the Spotify authentication flows and token lifecycle.
//
// # Flow Interface
//
// All three OAuth variants implement the [Flow] interface, so callers and the
// API client work uniformly regardless of how tokens are obtained:
//
//   - [AuthCodeFlow] : authorization code grant with client secret and refresh tokens
//   - [PKCEFlow] : authorization code grant with a PKCE verifier, no client secret
//   - [ClientCredsFlow] : client credentials grant, no user interaction, no refresh token
//
// The variants are independent types sharing only the token slot and cache
// helpers. Exchange and refresh are performed with [oauth2.Config] and
// [clientcredentials.Config] against the provider's token endpoint.
//
// # Token Slot
//
// Each flow owns a single mutex-guarded [Token] slot shared between the flow
// (writer) and concurrent API callers (readers). The lock covers only the
// in-memory read or write, never the network I/O of an exchange. Concurrent
// refreshes triggered by simultaneous expired-token observations collapse
// into one exchange via [singleflight.Group].
//
// # Token Cache
//
// [Cache] persists tokens to one JSON file per flow identity. The cache is
// advisory: a missing, corrupt, or version-mismatched entry hydrates nothing
// and the flow performs a fresh exchange instead.
//
// # Error Handling
//
// Structured token-endpoint failures surface as [*ProviderError] carrying the
// provider's error code and description. Sentinels from the shared package:
//   - [shared.ErrNoRefreshToken] : Refresh called without a stored refresh token
//   - [shared.ErrStateMismatch] : redirect callback state did not match
//   - [shared.ErrNoCachedToken] : cache miss (advisory, never fatal)
package auth
