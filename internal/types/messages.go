package types

type ScreenMode string

const (
	ModeChat    ScreenMode = "chat"
	ModeOptions ScreenMode = "options"
)

// Role identifies who authored a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one committed transcript entry. Messages are never edited
// after they are appended.
type Message struct {
	Role    Role
	Content string
}

// ResponseMsg carries the full backend answer for a submitted prompt.
type ResponseMsg struct {
	RequestID string
	Text      string
}

// ResponseErrMsg reports a failed backend call.
type ResponseErrMsg struct {
	RequestID string
	Err       error
}

func (e ResponseErrMsg) Error() string { return e.Err.Error() }

