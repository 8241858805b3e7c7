package common

// AuthorizationHeaderName is the HTTP header that carries the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme prefix written by clients.
const BearerScheme = "Bearer"
