// Package log builds the slog logger used by newsurl.
//
// Every record passes through SecureHandler, which masks values that must not
// end up in terminal output or shared CI logs:
//   - attributes whose key names a credential (cookie, authorization, token)
//   - values shaped like bearer tokens or JWTs
//   - sensitive query parameters inside logged URLs
//   - literal secrets registered at startup, such as per-site cookies
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose, log.WithSecrets(site.Cookie))
//	logger.Debug("fetching listing", "url", pageURL, "cookie", site.Cookie)
package log
