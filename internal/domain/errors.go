package domain

import "errors"

// Authentication errors.
var (
	ErrInvalidCredentials = errors.New("the provided credentials are incorrect")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrTokenInvalid       = errors.New("bearer token invalid")
	ErrTokenRevoked       = errors.New("bearer token revoked")
	ErrEmailTaken         = errors.New("email already registered")
)

// Tenant binding errors.
//
// ErrInvalidClientCookie covers every codec failure (bad base64, bad framing,
// signature mismatch, bad payload shape); callers are not told which.
var (
	ErrInvalidClientCookie = errors.New("invalid client cookie")
	ErrTenantInconsistent  = errors.New("client cookie does not match tenant binding")
)

// Token errors.
var (
	ErrTokenGeneration     = errors.New("token generation failed")
	ErrCookieSecretMissing = errors.New("cookie signing secret not configured")
)

// Store errors.
var (
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrStoreUnavailable = errors.New("record store unavailable")
)
