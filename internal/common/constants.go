package common

// AuthHeaderName is the HTTP header carrying the bearer credential on
// requests to the remote service.
const AuthHeaderName = "Authorization"

// BearerPrefix prefixes the token value inside AuthHeaderName.
const BearerPrefix = "Bearer "
