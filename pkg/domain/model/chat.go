package model

// Role labels one side of the conversation
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single utterance in the conversation history
type Turn struct {
	Role Role
	Text string
}
