package common

// AuthorizationHeaderName is the HTTP header (and lower-cased gRPC metadata
// key) that carries the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the optional scheme label preceding the token value.
const BearerScheme = "Bearer"
