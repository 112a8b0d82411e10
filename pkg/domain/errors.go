package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in a status store.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionTerminated is returned by hooks once the debug session has been torn down.
// The host engine should treat it as a request to abort the build.
var ErrSessionTerminated = errors.New("debug session terminated")

// ErrConnectionLost is the shutdown cause when the control stream fails or reaches EOF.
var ErrConnectionLost = errors.New("debug connection lost")

// ErrStackUnderflow is returned when a frame is left while the call stack is empty.
var ErrStackUnderflow = errors.New("call stack underflow")

// ErrMalformedCommand is returned when a control line cannot be parsed.
var ErrMalformedCommand = errors.New("malformed command")

// ErrClientTerminated is the shutdown cause when the client sends TERMINATE.
var ErrClientTerminated = errors.New("terminated by client")
