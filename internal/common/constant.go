package common

// AuthorizationHeaderName carries the publisher bearer token on feed requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "
