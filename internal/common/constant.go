package common

// AuthorizationHeader is the HTTP header carrying the bearer token on
// outbound requests.
const AuthorizationHeader = "Authorization"

// RequestIDHeader correlates a client request with backend logs.
const RequestIDHeader = "X-Request-ID"
