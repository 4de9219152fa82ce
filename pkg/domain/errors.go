package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoActiveSession is returned when a session-requiring operation runs
// without a current session.
var ErrNoActiveSession = errors.New("no active session")

// ErrTaskNotFound is returned when a referenced task ID is absent from the session.
var ErrTaskNotFound = errors.New("task not found")
