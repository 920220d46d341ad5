// Package wire defines the three frames exchanged with the chat server and
// the rules for turning them into text and back.
package wire

import "strings"

// MessageType is the tag carried in every frame's messageType field.
type MessageType string

const (
	TypeUsers    MessageType = "users"
	TypeRegister MessageType = "register"
	TypeMessage  MessageType = "message"
)

// Envelope is one of Users, Register or Message. The set is closed.
type Envelope interface {
	Type() MessageType
	isEnvelope()
}

// Users replaces the roster with the listed display names, in order.
type Users struct {
	Names []string
}

// Register announces the client's display name to the server.
type Register struct {
	Name string
}

// Message carries a chat line in its Data field. Outbound frames hold the raw
// text typed by the user and leave Chat empty; the server stamps the sender
// and relays Data as a JSON-encoded Chat, which Decode unpacks into Chat.
type Message struct {
	Data string
	Chat Chat
}

func (Users) Type() MessageType    { return TypeUsers }
func (Register) Type() MessageType { return TypeRegister }
func (Message) Type() MessageType  { return TypeMessage }

func (Users) isEnvelope()    {}
func (Register) isEnvelope() {}
func (Message) isEnvelope()  {}

// Chat is the inner record relayed inside a Message frame.
type Chat struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// IsImage reports whether the message should be shown as an image. The
// suffix check is case-sensitive: ".GIF" is plain text.
func (c Chat) IsImage() bool {
	return strings.HasSuffix(c.Message, ".gif")
}

// Text builds the outbound Message frame for a line typed by the user.
func Text(text string) Message {
	return Message{Data: text}
}

// NewMessage builds a Message frame whose Data is chat encoded as JSON, the
// shape the server relays to every client.
func NewMessage(chat Chat) (Message, error) {
	data, err := EncodeChat(chat)
	if err != nil {
		return Message{}, err
	}
	return Message{Data: data, Chat: chat}, nil
}
