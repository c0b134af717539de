package models

import "github.com/google/uuid"

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Attachment is a single typed payload carried by a message: either binary
// Data or plain Text, with a media type and a display name.
type Attachment struct {
	Name      string `json:"name"`
	MediaType string `json:"mediaType"`
	Data      []byte `json:"data,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Message is one turn in a problem conversation. Ordering within a problem's
// chat history is append-only and significant.
type Message struct {
	ID         string      `json:"id"`
	Sender     Sender      `json:"sender"`
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// NewMessage builds a message with a fresh id.
func NewMessage(sender Sender, text string, attachment *Attachment) Message {
	return Message{
		ID:         uuid.NewString(),
		Sender:     sender,
		Text:       text,
		Attachment: attachment,
	}
}
