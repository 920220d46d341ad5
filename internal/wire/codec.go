package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformed means the text is not a JSON object of the expected shape.
	ErrMalformed = errors.New("malformed frame")
	// ErrUnknownType means messageType is not users, register or message.
	ErrUnknownType = errors.New("unknown message type")
	// ErrMissingField means the payload field required by the tag is absent.
	ErrMissingField = errors.New("missing required field")
)

// Stage names the decode step that failed.
type Stage string

const (
	StageEnvelope Stage = "envelope"
	StagePayload  Stage = "payload"
)

// DecodeError is returned for any frame Decode rejects, whichever stage
// failed.
type DecodeError struct {
	Stage Stage
	Type  MessageType
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("decode %s (%s): %v", e.Stage, e.Type, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// frame is the JSON shape on the wire. Pointers distinguish an absent or
// null field from an empty one.
type frame struct {
	MessageType MessageType `json:"messageType"`
	Data        *string     `json:"data,omitempty"`
	DataArray   *[]string   `json:"dataArray,omitempty"`
}

type chatFrame struct {
	From    *string `json:"from"`
	Message *string `json:"message"`
}

// Encode renders an envelope as a JSON text frame. Only the payload field
// belonging to the envelope's tag is written.
func Encode(env Envelope) (string, error) {
	var f frame
	switch typed := env.(type) {
	case Users:
		names := typed.Names
		if names == nil {
			names = []string{}
		}
		f = frame{MessageType: TypeUsers, DataArray: &names}
	case Register:
		f = frame{MessageType: TypeRegister, Data: &typed.Name}
	case Message:
		f = frame{MessageType: TypeMessage, Data: &typed.Data}
	default:
		return "", fmt.Errorf("encode %T: %w", env, ErrUnknownType)
	}
	encoded, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Decode parses a text frame. A Message frame is decoded in two stages, the
// envelope and then the Chat carried in data; a failure in either is reported
// as one *DecodeError.
func Decode(text string) (Envelope, error) {
	var f frame
	if err := json.Unmarshal([]byte(text), &f); err != nil {
		return nil, &DecodeError{Stage: StageEnvelope, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	switch f.MessageType {
	case TypeUsers:
		if f.DataArray == nil {
			return nil, missing(TypeUsers, "dataArray")
		}
		return Users{Names: *f.DataArray}, nil
	case TypeRegister:
		if f.Data == nil {
			return nil, missing(TypeRegister, "data")
		}
		return Register{Name: *f.Data}, nil
	case TypeMessage:
		if f.Data == nil {
			return nil, missing(TypeMessage, "data")
		}
		chat, err := DecodeChat(*f.Data)
		if err != nil {
			var decodeErr *DecodeError
			if errors.As(err, &decodeErr) {
				decodeErr.Type = TypeMessage
				return nil, decodeErr
			}
			return nil, err
		}
		return Message{Data: *f.Data, Chat: chat}, nil
	default:
		return nil, &DecodeError{Stage: StageEnvelope, Type: f.MessageType, Err: fmt.Errorf("%w: %q", ErrUnknownType, f.MessageType)}
	}
}

// EncodeChat renders the inner record carried by a Message frame.
func EncodeChat(chat Chat) (string, error) {
	encoded, err := json.Marshal(chat)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// DecodeChat parses the inner record. Both from and message must be present.
func DecodeChat(text string) (Chat, error) {
	var f chatFrame
	if err := json.Unmarshal([]byte(text), &f); err != nil {
		return Chat{}, &DecodeError{Stage: StagePayload, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	if f.From == nil {
		return Chat{}, &DecodeError{Stage: StagePayload, Err: fmt.Errorf("%w: from", ErrMissingField)}
	}
	if f.Message == nil {
		return Chat{}, &DecodeError{Stage: StagePayload, Err: fmt.Errorf("%w: message", ErrMissingField)}
	}
	return Chat{From: *f.From, Message: *f.Message}, nil
}

func missing(t MessageType, field string) error {
	return &DecodeError{Stage: StageEnvelope, Type: t, Err: fmt.Errorf("%w: %s", ErrMissingField, field)}
}
