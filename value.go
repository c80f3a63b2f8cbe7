package ama

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Value is the payload of Rider.LogEvent. It is either a Scalar or a Structured.
type Value interface {
	bufferedEvent(name string) BufferedEvent
}

// Scalar records a "Custom" event whose single attribute, keyed by the event
// name, holds the JSON encoding of the string.
type Scalar string

// Structured records an event of the given name with the map as attributes.
type Structured map[string]any

func (s Scalar) bufferedEvent(name string) BufferedEvent {
	return BufferedEvent{
		EventType:  EventTypeCustom,
		Attributes: map[string]any{name: jsonString(string(s))},
	}
}

func (s Structured) bufferedEvent(name string) BufferedEvent {
	attrs := maps.Clone(map[string]any(s))
	if attrs == nil {
		attrs = map[string]any{}
	}
	return BufferedEvent{EventType: name, Attributes: attrs}
}

// valueOf maps a dynamically typed value onto a Value. Unsupported kinds
// (numbers, nil, slices, ...) return a *MalformedEventError alongside an
// empty Structured so the event is still recorded.
func valueOf(name string, v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return Scalar(val), nil
	case map[string]any:
		return Structured(val), nil
	case map[string]string:
		attrs := make(Structured, len(val))
		for k, s := range val {
			attrs[k] = s
		}
		return attrs, nil
	}
	return Structured{}, &MalformedEventError{Name: name, Kind: fmt.Sprintf("%T", v)}
}

// jsonString encodes s the way JSON.stringify does, without HTML escaping.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// encoding a string cannot fail
	_ = enc.Encode(s)
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
