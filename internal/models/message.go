package models

// MessageRole identifies who authored a message in a conversation.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether the role is one of the known values.
func (r MessageRole) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single transcript entry. Messages are immutable once created;
// slice order is conversation order.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}
