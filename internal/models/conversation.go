package models

import "time"

// Conversation is the full per-session state: the ordered transcript plus the
// data record accumulated from assistant replies. One conversation is owned
// by exactly one session id in the store.
type Conversation struct {
	SessionID     string        `json:"session_id"`
	Messages      []Message     `json:"messages"`
	CollectedData CollectedData `json:"collected_data"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewConversation returns an empty conversation for the given session id.
func NewConversation(sessionID string, now time.Time) *Conversation {
	return &Conversation{
		SessionID: sessionID,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds messages to the transcript in order.
func (c *Conversation) Append(messages ...Message) {
	c.Messages = append(c.Messages, messages...)
}
