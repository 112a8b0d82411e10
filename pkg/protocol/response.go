package protocol

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Response keywords sent by the session.
const (
	MsgBuildStarted = "BUILD_STARTED"
	MsgSuspended    = "SUSPENDED"
	MsgTerminated   = "TERMINATED"
	MsgStack        = "STACK"
	MsgProperties   = "PROPERTIES"
)

// Suspended renders the notification for a suspension.
func Suspended(s domain.Suspension) string {
	switch s.Reason {
	case domain.ReasonBreakpoint:
		if s.Breakpoint != nil {
			return MsgSuspended + Separator + string(s.Reason) + Separator + EncodeBreakpoint(*s.Breakpoint)
		}
	}
	return MsgSuspended + Separator + string(s.Reason)
}

// StackPayload is the body of a STACK response, ordered outermost to innermost.
type StackPayload struct {
	Target    *domain.Target `json:"target,omitempty"`
	Frames    []domain.Frame `json:"frames"`
	Next      string         `json:"next,omitempty"`
	Remaining []string       `json:"remaining,omitempty"`
}

// PropertyOrigin tells whether a property existed before the build started.
type PropertyOrigin string

const (
	OriginInherited PropertyOrigin = "inherited"
	OriginBuild     PropertyOrigin = "build"
)

// Property is one entry of a PROPERTIES response.
type Property struct {
	Name   string         `json:"name"`
	Value  string         `json:"value"`
	Origin PropertyOrigin `json:"origin"`
}

// PropertiesPayload is the body of a PROPERTIES response.
type PropertiesPayload struct {
	Properties []Property `json:"properties"`
}

// ClassifyProperties tags every current property against the snapshot taken at build start.
// A property is inherited when it existed in the baseline with the same value.
func ClassifyProperties(baseline, current map[string]string) PropertiesPayload {
	out := PropertiesPayload{Properties: make([]Property, 0, len(current))}
	for name, value := range current {
		origin := OriginBuild
		if prev, ok := baseline[name]; ok && prev == value {
			origin = OriginInherited
		}
		out.Properties = append(out.Properties, Property{Name: name, Value: value, Origin: origin})
	}
	sort.Slice(out.Properties, func(i, j int) bool {
		return out.Properties[i].Name < out.Properties[j].Name
	})
	return out
}

// Stack renders a STACK response line.
func Stack(p StackPayload) (string, error) {
	if p.Frames == nil {
		p.Frames = []domain.Frame{}
	}
	return withPayload(MsgStack, p)
}

// Properties renders a PROPERTIES response line.
func Properties(p PropertiesPayload) (string, error) {
	if p.Properties == nil {
		p.Properties = []Property{}
	}
	return withPayload(MsgProperties, p)
}

func withPayload(keyword string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s payload: %w", strings.ToLower(keyword), err)
	}
	return keyword + Separator + string(data), nil
}

// Message is a response line as seen by a client.
type Message struct {
	Keyword string
	Fields  []string
	// Payload is everything after the first separator, verbatim.
	Payload string
}

// ParseMessage splits a response line. It never fails: unknown keywords are returned as-is.
func ParseMessage(line string) Message {
	line = strings.TrimRight(line, "\r\n")
	keyword, payload, _ := strings.Cut(line, Separator)
	msg := Message{Keyword: keyword, Payload: payload}
	if payload != "" && keyword != MsgStack && keyword != MsgProperties {
		msg.Fields = strings.Split(payload, Separator)
	}
	return msg
}

// DecodeStack decodes the payload of a STACK message.
func DecodeStack(msg Message) (StackPayload, error) {
	var p StackPayload
	if err := json.Unmarshal([]byte(msg.Payload), &p); err != nil {
		return StackPayload{}, fmt.Errorf("failed to decode stack payload: %w", err)
	}
	return p, nil
}

// DecodeProperties decodes the payload of a PROPERTIES message.
func DecodeProperties(msg Message) (PropertiesPayload, error) {
	var p PropertiesPayload
	if err := json.Unmarshal([]byte(msg.Payload), &p); err != nil {
		return PropertiesPayload{}, fmt.Errorf("failed to decode properties payload: %w", err)
	}
	return p, nil
}
