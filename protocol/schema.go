// Package protocol defines the JSON messages exchanged between the gateway and
// drawing clients over the websocket.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Message types carried in Envelope.Type.
const (
	TypeJoinRoom  = "join_room"
	TypeLeaveRoom = "leave_room"
	TypeChat      = "chat"
	TypeSync      = "sync"
	TypeError     = "error"
)

// Envelope is the frame for all websocket messages in both directions.
// For chat, Message is itself a JSON encoded Payload.
//
// An error reply to a chat carries the refused payload in Rejected; other
// errors leave it empty.
type Envelope struct {
	Type     string  `json:"type"`
	RoomID   RoomID  `json:"roomId,omitempty"`
	Message  string  `json:"message,omitempty"`
	UserID   string  `json:"userId,omitempty"`
	Events   []Event `json:"events,omitempty"`
	Rejected string  `json:"rejected,omitempty"`
}

// Event is one stored chat message replayed to a joining client.
type Event struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// RoomID is an opaque room identifier. Clients send it either as a JSON
// string or a JSON number; it is always re-encoded as a string.
type RoomID string

func (r *RoomID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RoomID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("room id: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("room id: %w", err)
	}
	*r = RoomID(n.String())
	return nil
}

func (r RoomID) String() string { return string(r) }

// Encode marshals an envelope for the wire.
func Encode(env Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", env.Type, err)
	}
	return data, nil
}
