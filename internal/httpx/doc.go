// Package httpx is the HTTP layer shared by all vendor integrations.
//
// It provides three pieces the per-vendor scripts used to reimplement:
//
//   - [Client], a retrying JSON HTTP client. Throttled (429) and 5xx
//     responses are retried with exponential backoff capped at two
//     minutes, honoring Retry-After. Non-2xx responses surface as
//     [StatusError] values formatted "HTTP <code>: <message>".
//   - [Limiter], a token-bucket rate limiter parameterized per vendor
//     operation (SP-API publishes rate and burst per endpoint).
//   - [AuthFunc] decorators connecting requests to the credential cache
//     or to per-request signers.
//
// Everything time-related is injectable, so retry and limiter behavior
// is tested without real sleeps.
package httpx
