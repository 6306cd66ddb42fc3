package reader

import (
	sess "github.com/abhisek/wenyan/internal/session"
)

// analyzeDoneMsg carries a finished analysis back to the UI loop.
type analyzeDoneMsg struct {
	Result sess.AnalyzeResult
}

// explainDoneMsg carries a finished explanation back to the UI loop.
type explainDoneMsg struct {
	Result sess.ExplainResult
}

// loadPassageMsg asks the screen to put a saved passage into the editor.
type loadPassageMsg struct {
	ID int64
}

// loadExampleMsg asks the screen to put the built-in example into the
// editor.
type loadExampleMsg struct{}

// libraryChangedMsg is sent after a save or delete has been persisted.
type libraryChangedMsg struct{}
