// Package pexels implements the RemoteFetcher port against a Pexels-compatible
// stock-media API.
//
// One search request is issued per slot and the first result is taken as the
// provider ranked it. The chosen binary is downloaded atomically to the slot's
// target path and an attribution sidecar is written next to it.
//
// Expected failures never surface as Go errors from Fetch: an empty result set
// becomes FetchNotFound, and transport failures, timeouts, non-2xx responses and
// rate limiting become FetchNetworkError. Nothing is retried here.
package pexels
