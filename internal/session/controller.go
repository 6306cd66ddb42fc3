// Package session implements the reading-session controller: the state
// machine that sequences analysis, explanation, speech and the saved
// passage library, and discards responses that are no longer current.
//
// Asynchronous operations come in three parts. Begin performs the state
// transition and returns a request tagged with a generation number. Run
// does the I/O and touches no state, so it may run on any goroutine.
// Apply lands the result only if its tag is still the newest issued.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/wenyan/internal/analysis"
	"github.com/abhisek/wenyan/internal/backend"
	"github.com/abhisek/wenyan/internal/explain"
	"github.com/abhisek/wenyan/internal/library"
	"github.com/abhisek/wenyan/internal/reader"
)

// Speaker starts pronouncing text without waiting for it.
type Speaker interface {
	Say(text string)
}

// Observer receives operation outcomes for metrics.
type Observer interface {
	// Observe records one applied or dropped result. op is "analyze" or
	// "explain"; outcome is "ok", "error" or "stale".
	Observe(op, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) Observe(string, string, time.Duration) {}

type silent struct{}

func (silent) Say(string) {}

// Options wires a Controller to its collaborators.
type Options struct {
	Analyzer  analysis.Analyzer
	Explainer explain.Explainer
	Speaker   Speaker
	Library   library.Persistence
	Observer  Observer
	Log       *slog.Logger
	Messages  Messages

	// Now is the clock used for passage ids. Defaults to time.Now.
	Now func() time.Time
}

// Controller owns the reading session state.
type Controller struct {
	analyzer  analysis.Analyzer
	explainer explain.Explainer
	speaker   Speaker
	library   library.Persistence
	observer  Observer
	log       *slog.Logger
	msgs      Messages
	now       func() time.Time

	// persistMu orders library writes; it is taken before mu.
	persistMu sync.Mutex

	mu         sync.Mutex
	state      State
	analyzeGen uint64
	explainGen uint64
	lastID     int64
}

// New creates a Controller. Analyzer, Explainer and Library are required.
func New(opts Options) *Controller {
	c := &Controller{
		analyzer:  opts.Analyzer,
		explainer: opts.Explainer,
		speaker:   opts.Speaker,
		library:   opts.Library,
		observer:  opts.Observer,
		log:       opts.Log,
		msgs:      opts.Messages,
		now:       opts.Now,
	}
	if c.speaker == nil {
		c.speaker = silent{}
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.msgs == (Messages{}) {
		c.msgs = DefaultMessages()
	}
	c.state.Library = reader.Library{}
	return c
}

// Load reads the saved library. Call once at session start.
func (c *Controller) Load(ctx context.Context) {
	lib := c.library.LoadLibrary(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Library = lib
	for _, p := range lib {
		if p.ID > c.lastID {
			c.lastID = p.ID
		}
	}
	c.log.Info("library loaded", "passages", len(lib))
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Tokens = c.state.Tokens.Clone()
	s.Library = c.state.Library.Clone()
	if c.state.Selected != nil {
		sel := *c.state.Selected
		s.Selected = &sel
	}
	return s
}

// Phase reports the controller's coarse state.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.state.Analyzing:
		return PhaseAnalyzing
	case c.state.Explaining:
		return PhaseExplaining
	case len(c.state.Tokens) > 0:
		return PhaseReady
	default:
		return PhaseIdle
	}
}

// SetInputText replaces the input text. Tokens and explanation are kept.
func (c *Controller) SetInputText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.InputText = text
}

// ClearNotice dismisses the current notice.
func (c *Controller) ClearNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Notice = ""
}

// AnalyzeRequest is an issued analysis.
type AnalyzeRequest struct {
	Gen  uint64
	Text string
}

// AnalyzeResult is the outcome of RunAnalyze.
type AnalyzeResult struct {
	Gen     uint64
	Tokens  reader.TokenSequence
	Err     error
	Elapsed time.Duration
}

// BeginAnalyze issues a new analysis of the input text. It returns false,
// changing nothing, when the text is blank.
func (c *Controller) BeginAnalyze() (AnalyzeRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.TrimSpace(c.state.InputText) == "" {
		return AnalyzeRequest{}, false
	}
	c.analyzeGen++
	c.state.Analyzing = true
	c.state.Notice = ""
	return AnalyzeRequest{Gen: c.analyzeGen, Text: c.state.InputText}, true
}

// RunAnalyze performs the request. It does not touch controller state.
func (c *Controller) RunAnalyze(ctx context.Context, req AnalyzeRequest) AnalyzeResult {
	start := time.Now()
	tokens, err := c.analyzer.Analyze(ctx, req.Text)
	return AnalyzeResult{Gen: req.Gen, Tokens: tokens, Err: err, Elapsed: time.Since(start)}
}

// ApplyAnalyze lands res if it belongs to the newest analysis and reports
// whether it did.
func (c *Controller) ApplyAnalyze(res AnalyzeResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res.Gen != c.analyzeGen {
		c.log.Debug("dropping stale analysis", "gen", res.Gen, "current", c.analyzeGen)
		c.observer.Observe("analyze", "stale", res.Elapsed)
		return false
	}

	c.state.Analyzing = false
	if res.Err != nil {
		c.state.Notice = "分析失敗：" + backend.Describe(res.Err)
		c.log.Warn("analyze failed", "error", res.Err, "elapsed", res.Elapsed)
		c.observer.Observe("analyze", "error", res.Elapsed)
		return true
	}

	c.state.Tokens = res.Tokens.Clone()
	if c.state.Tokens == nil {
		c.state.Tokens = reader.TokenSequence{}
	}
	c.state.Explanation = ""
	c.state.Selected = nil
	// An explanation still in flight belongs to the previous tokens.
	c.explainGen++
	c.state.Explaining = false

	c.log.Info("analyzed", "tokens", len(res.Tokens), "elapsed", res.Elapsed)
	c.observer.Observe("analyze", "ok", res.Elapsed)
	return true
}

// Analyze runs a whole analysis synchronously.
func (c *Controller) Analyze(ctx context.Context) bool {
	req, ok := c.BeginAnalyze()
	if !ok {
		return false
	}
	return c.ApplyAnalyze(c.RunAnalyze(ctx, req))
}

// ExplainRequest is an issued explanation.
type ExplainRequest struct {
	Gen     uint64
	Word    string
	Context string
}

// ExplainResult is the outcome of RunExplain.
type ExplainResult struct {
	Gen     uint64
	Text    string
	Err     error
	Elapsed time.Duration
}

// BeginExplain shows the pending message, starts pronouncing the token and
// issues an explanation request with the whole input text as context.
// Tokens that are not part of the current sequence are ignored.
func (c *Controller) BeginExplain(tok reader.Token) (ExplainRequest, bool) {
	c.mu.Lock()
	if !c.state.Tokens.Contains(tok) {
		c.mu.Unlock()
		return ExplainRequest{}, false
	}
	c.explainGen++
	c.state.Explaining = true
	c.state.Explanation = c.msgs.Pending
	sel := tok
	c.state.Selected = &sel
	req := ExplainRequest{Gen: c.explainGen, Word: tok.Text, Context: c.state.InputText}
	c.mu.Unlock()

	c.speaker.Say(tok.Text)
	return req, true
}

// RunExplain performs the request. It does not touch controller state.
func (c *Controller) RunExplain(ctx context.Context, req ExplainRequest) ExplainResult {
	start := time.Now()
	text, err := c.explainer.Explain(ctx, req.Word, req.Context)
	return ExplainResult{Gen: req.Gen, Text: text, Err: err, Elapsed: time.Since(start)}
}

// ApplyExplain lands res if it belongs to the newest explanation and
// reports whether it did.
func (c *Controller) ApplyExplain(res ExplainResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res.Gen != c.explainGen {
		c.log.Debug("dropping stale explanation", "gen", res.Gen, "current", c.explainGen)
		c.observer.Observe("explain", "stale", res.Elapsed)
		return false
	}

	c.state.Explaining = false
	switch {
	case res.Err != nil:
		c.state.Explanation = c.msgs.Failure + "：" + backend.Describe(res.Err)
		c.log.Warn("explain failed", "error", res.Err, "elapsed", res.Elapsed)
		c.observer.Observe("explain", "error", res.Elapsed)
		return true
	case strings.TrimSpace(res.Text) == "" && c.msgs.Empty != "":
		c.state.Explanation = c.msgs.Empty
	default:
		c.state.Explanation = res.Text
	}
	c.log.Info("explained", "elapsed", res.Elapsed)
	c.observer.Observe("explain", "ok", res.Elapsed)
	return true
}

// Explain runs a whole explanation synchronously.
func (c *Controller) Explain(ctx context.Context, tok reader.Token) bool {
	req, ok := c.BeginExplain(tok)
	if !ok {
		return false
	}
	return c.ApplyExplain(c.RunExplain(ctx, req))
}

// Save stores the input text as a new passage at the head of the library.
// Blank text is ignored and nothing is written.
func (c *Controller) Save(ctx context.Context) bool {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	if strings.TrimSpace(c.state.InputText) == "" {
		c.mu.Unlock()
		return false
	}
	p := reader.SavedPassage{ID: c.nextID(), Content: c.state.InputText}
	c.state.Library = c.state.Library.Prepend(p)
	lib := c.state.Library.Clone()
	c.mu.Unlock()

	c.library.SaveLibrary(ctx, lib)
	c.log.Info("passage saved", "id", p.ID, "passages", len(lib))
	return true
}

// Delete removes the passage with id and writes the library. It changes
// nothing else; an unknown id is a no-op.
func (c *Controller) Delete(ctx context.Context, id int64) bool {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	lib, found := c.state.Library.Without(id)
	if !found {
		c.mu.Unlock()
		return false
	}
	c.state.Library = lib
	snapshot := lib.Clone()
	c.mu.Unlock()

	c.library.SaveLibrary(ctx, snapshot)
	c.log.Info("passage deleted", "id", id, "passages", len(snapshot))
	return true
}

// LoadPassage puts a saved passage into the input. It does not analyze.
func (c *Controller) LoadPassage(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.state.Library.Find(id)
	if !ok {
		return false
	}
	c.state.InputText = p.Content
	return true
}

// LoadExample puts the built-in sample passage into the input.
func (c *Controller) LoadExample() {
	c.SetInputText(reader.ExamplePassage.Content)
}

// nextID returns a millisecond timestamp, bumped past the last id handed
// out so ids stay unique when the clock stalls or steps back.
// Callers hold c.mu.
func (c *Controller) nextID() int64 {
	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}
