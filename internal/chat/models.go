package chat

// State is the position of one conversation in the scripted dialogue tree.
type State int

const (
	StateIdle State = iota

	// need-blood flow: collects a request field per turn.
	StateNeedBloodGroup
	StateNeedCity
	StateNeedHospital
	StateNeedContact

	// donate flow: collects a donor field per turn.
	StateDonateName
	StateDonateCity
	StateDonateArea
	StateDonatePhone
	StateDonateGroup
)

type MessageRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type Reply struct {
	SessionID   string   `json:"sessionId"`
	Replies     []string `json:"replies"`
	Suggestions []string `json:"suggestions,omitempty"`
}
