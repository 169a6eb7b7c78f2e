// Package common contains constants and helpers shared by HydrateMate
// client components.
package common

const (
	// AuthorizationHeader carries the bearer token on backend requests.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// ContentTypeHeader is the request/response content type header.
	ContentTypeHeader = "Content-Type"

	UserAgentHeader = "User-Agent"

	// ContentTypeJSON is sent on every JSON request body.
	ContentTypeJSON = "application/json"
)

// BearerValue formats token as an Authorization header value.
func BearerValue(token string) string {
	return BearerPrefix + token
}
