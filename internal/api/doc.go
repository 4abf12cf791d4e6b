// Package api implements the authenticated Spotify Web API client and the
// generic pagination engine.
//
// # Authenticated Calls
//
// [Client] wraps every request in the token discipline: read the current
// token from the flow's shared slot, refresh exactly once when it is
// expired or missing a required scope, then attach it as a Bearer
// credential. A refresh failure surfaces [shared.ErrReauthRequired]; the
// client never issues a request with an expired token and never retries
// on rate-limiting.
//
// # Response Classification
//
//   - 2xx: body decoded into the caller's type; empty and null bodies
//     produce a zero value
//   - 204: [ErrNoContent]
//   - 401: [ErrInvalidToken] (no second refresh)
//   - 403: [ErrUnauthorized]
//   - 404: [ErrNotFound], translated to [ErrNoActiveDevice] by player
//     call sites
//   - 400/429: the provider's error envelope as [*ResponseError]
//
// # Pagination
//
// [Pager] follows server-supplied continuation links in both directions.
// It is encoding-agnostic: the caller's extractor returns whatever link
// should be replayed next, whether an absolute offset/limit URL or a URL
// composed from an opaque cursor. See [Client.SavedTracksPager] for the
// offset style and [Client.RecentlyPlayedPager] for the cursor style.
package api
