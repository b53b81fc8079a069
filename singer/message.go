package singer

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MessageType identifies a Singer message.
type MessageType string

// Message types defined by the Singer spec.
const (
	MessageTypeRecord          MessageType = "RECORD"
	MessageTypeSchema          MessageType = "SCHEMA"
	MessageTypeState           MessageType = "STATE"
	MessageTypeActivateVersion MessageType = "ACTIVATE_VERSION"
)

// Message is a single Singer protocol message. Which fields are set
// depends on Type.
type Message struct {
	Type MessageType `json:"type"`

	// Stream names the stream for RECORD, SCHEMA and ACTIVATE_VERSION.
	Stream string `json:"stream,omitempty"`

	// Record carries the row data of a RECORD message. Numbers are
	// decoded as json.Number so precision survives the round trip.
	Record map[string]any `json:"record,omitempty"`

	// Schema is the raw JSON Schema of a SCHEMA message.
	Schema json.RawMessage `json:"schema,omitempty"`

	// KeyProperties lists the primary key columns of a SCHEMA message.
	KeyProperties []string `json:"key_properties,omitempty"`

	// Value is the raw state of a STATE message.
	Value json.RawMessage `json:"value,omitempty"`

	// Version is the table version of RECORD and ACTIVATE_VERSION
	// messages.
	Version *int64 `json:"version,omitempty"`

	// TimeExtracted is the tap-reported extraction time of a RECORD.
	TimeExtracted string `json:"time_extracted,omitempty"`
}

// ParseMessage decodes one line of tap output into a Message.
//
// Required fields are enforced per message type. An unrecognized type is
// not an error here: the Singer spec tells targets to ignore message
// types they do not understand, so the caller decides what to do with it.
func ParseMessage(line []byte) (*Message, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	msg := &Message{}
	if err := dec.Decode(msg); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	switch msg.Type {
	case MessageTypeRecord:
		if msg.Stream == "" {
			return nil, fmt.Errorf("RECORD message is missing required key 'stream'")
		}
		if msg.Record == nil {
			return nil, fmt.Errorf("RECORD message for stream %s is missing required key 'record'", msg.Stream)
		}
	case MessageTypeSchema:
		if msg.Stream == "" {
			return nil, fmt.Errorf("SCHEMA message is missing required key 'stream'")
		}
		if len(msg.Schema) == 0 {
			return nil, fmt.Errorf("SCHEMA message for stream %s is missing required key 'schema'", msg.Stream)
		}
	case MessageTypeState:
		if len(msg.Value) == 0 {
			return nil, fmt.Errorf("STATE message is missing required key 'value'")
		}
	case MessageTypeActivateVersion:
		if msg.Stream == "" {
			return nil, fmt.Errorf("ACTIVATE_VERSION message is missing required key 'stream'")
		}
	case "":
		return nil, fmt.Errorf("message is missing required key 'type'")
	}

	return msg, nil
}
