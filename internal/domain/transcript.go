package domain

// Role identifies who produced a transcript entry.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
	RoleSummary   Role = "summary"
)

// TranscriptEntry is a single line of a wizard conversation as shown to the user.
type TranscriptEntry struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
