// Package middleware provides composable SessionStore wrappers: at-rest
// encryption with key rotation, and redaction of secret-looking content
// before persistence.
package middleware

import "github.com/codemaster-ai/codemaster/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore
