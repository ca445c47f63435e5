package router

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/mosq-go/mosq"
)

// Request is one routed message: the inbound MQTT message plus the
// values its topic captured.
type Request struct {
	// Message is the inbound message as delivered by the client.
	Message mosq.Message

	params map[string]string
}

// Param returns the capture named name, or "" when the route did not
// capture it.
func (r *Request) Param(name string) string {
	return r.params[name]
}

// BindParams unmarshals the route captures into v through JSON field
// names. Captures are strings; bind numeric fields with the
// `json:",string"` tag.
func (r *Request) BindParams(v any) error {
	raw, err := json.Marshal(r.params)
	if err != nil {
		return fmt.Errorf("router: encoding params: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("router: binding params: %w", err)
	}
	return nil
}

// BindJSON unmarshals the message payload as JSON into v.
func (r *Request) BindJSON(v any) error {
	if err := json.Unmarshal(r.Message.Payload, v); err != nil {
		return fmt.Errorf("router: binding payload: %w", err)
	}
	return nil
}

// Text returns the payload as a string, rejecting payloads that are not
// valid UTF-8.
func (r *Request) Text() (string, error) {
	if !utf8.Valid(r.Message.Payload) {
		return "", ErrPayloadNotUTF8
	}
	return string(r.Message.Payload), nil
}
