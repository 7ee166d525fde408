// Package httpclient is the HTTP transport shared by all site adapters.
//
// A Client wraps a resty client and adds what every listing fetch needs:
// a browser-like User-Agent, per-request headers and cookies, a response
// size limit and a politeness limiter that spaces requests by a fixed delay.
// Non-2xx responses are reported as *StatusError so callers can tell HTTP
// failures apart from transport failures with errors.Is(err, ErrUnexpectedStatus).
package httpclient
