// Package llm holds the provider-agnostic chat types shared by the client,
// the payload shape parsers and the CLI.
package llm

// Conversation roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single text turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewTextMessage creates a message with the given role and content.
func NewTextMessage(role, text string) Message {
	return Message{Role: role, Content: text}
}
