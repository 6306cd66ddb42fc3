package session

import "github.com/abhisek/wenyan/internal/reader"

// Phase is the controller's coarse state.
type Phase int

const (
	PhaseIdle       Phase = iota // nothing analyzed yet
	PhaseAnalyzing               // an analysis request is current
	PhaseReady                   // tokens are present
	PhaseExplaining              // an explanation request is current
)

var phaseNames = map[Phase]string{
	PhaseIdle:       "idle",
	PhaseAnalyzing:  "analyzing",
	PhaseReady:      "ready",
	PhaseExplaining: "explaining",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

// State is a read-only snapshot of the reading session.
type State struct {
	InputText   string
	Tokens      reader.TokenSequence
	Explanation string
	Analyzing   bool
	Explaining  bool

	// Notice is a short message about the last failed analysis, or empty.
	Notice string

	// Selected is the token most recently sent for explanation.
	Selected *reader.Token

	Library reader.Library
}

// Messages are the explanation panel strings the controller writes.
type Messages struct {
	// Pending is shown while an explanation is outstanding.
	Pending string

	// Empty replaces an empty explanation from the backend.
	// When empty itself, the blank answer is shown as is.
	Empty string

	// Failure prefixes the reason an explanation could not be fetched.
	Failure string
}

// DefaultMessages returns the standard Traditional Chinese strings.
func DefaultMessages() Messages {
	return Messages{
		Pending: "思考中...",
		Empty:   "解析失敗",
		Failure: "無法取得解釋",
	}
}
