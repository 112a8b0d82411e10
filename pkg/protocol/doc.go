// Package protocol defines the line-oriented wire format spoken between a debug
// session and its client.
//
// Every message is a single newline-terminated line. Fields are separated by "|".
// Commands flow from the client to the session; responses and notifications flow back.
// Structured payloads (STACK, PROPERTIES) carry a single JSON document after the keyword.
package protocol
