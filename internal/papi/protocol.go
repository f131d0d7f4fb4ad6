// Package papi is the client for the Platform.Bible host API. The extension
// holds one WebSocket connection to the host and exchanges JSON envelopes on
// it: requests it sends (with correlation IDs), requests the host sends to it
// (command invocations, web-view provider calls), and events it subscribes to.
package papi

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// MessageType discriminates envelope payloads.
type MessageType string

const (
	// MessageRequest asks the peer to perform an operation.
	MessageRequest MessageType = "request"
	// MessageResponse answers a request, matched by correlation ID.
	MessageResponse MessageType = "response"
	// MessageEvent is a fire-and-forget notification.
	MessageEvent MessageType = "event"
)

// Message is the JSON envelope exchanged with the host.
type Message struct {
	Type    MessageType     `json:"type"`
	ID      string          `json:"id,omitempty"`      // correlation ID (request/response)
	Subject string          `json:"subject,omitempty"` // operation or event name
	Params  json.RawMessage `json:"params,omitempty"`  // request params or event payload
	Result  json.RawMessage `json:"result,omitempty"`  // response result
	Error   string          `json:"error,omitempty"`   // response error
}

// NewRequest builds a request envelope with a fresh correlation ID.
func NewRequest(subject string, params interface{}) (*Message, error) {
	msg := &Message{
		Type:    MessageRequest,
		ID:      uuid.NewString(),
		Subject: subject,
	}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to encode params for %s: %w", subject, err)
		}
		msg.Params = data
	}
	return msg, nil
}

// NewResponse builds a success response for a request.
func NewResponse(id string, result interface{}) (*Message, error) {
	msg := &Message{
		Type: MessageResponse,
		ID:   id,
	}
	if result != nil {
		data, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		msg.Result = data
	}
	return msg, nil
}

// NewErrorResponse builds an error response for a request.
func NewErrorResponse(id, errMsg string) *Message {
	return &Message{
		Type:  MessageResponse,
		ID:    id,
		Error: errMsg,
	}
}

// NewEvent builds an event envelope.
func NewEvent(subject string, payload interface{}) (*Message, error) {
	msg := &Message{
		Type:    MessageEvent,
		Subject: subject,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode event payload for %s: %w", subject, err)
		}
		msg.Params = data
	}
	return msg, nil
}

// DecodeParams unmarshals request params or an event payload into out.
func (m *Message) DecodeParams(out interface{}) error {
	if len(m.Params) == 0 {
		return fmt.Errorf("message %s has no params", m.Subject)
	}
	if err := json.Unmarshal(m.Params, out); err != nil {
		return fmt.Errorf("failed to decode params for %s: %w", m.Subject, err)
	}
	return nil
}

// DecodeResult unmarshals a response result into out.
func (m *Message) DecodeResult(out interface{}) error {
	if out == nil {
		return nil
	}
	if len(m.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(m.Result, out); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}
