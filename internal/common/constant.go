// Package common contains shared constants and sentinel errors used across
// GophFeed components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "

// TokenMetadataKey is the well-known key the client persists its credential
// under in the local metadata store.
const TokenMetadataKey = "auth_token"
