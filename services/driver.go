package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hireloop/backend/models"
	"github.com/hireloop/backend/store"
)

// DriverState is the conversation driver's current phase.
type DriverState string

const (
	StateNotStarted    DriverState = "not_started"
	StateAITurnPending DriverState = "ai_turn_pending"
	StateAwaitingUser  DriverState = "awaiting_user_input"
	StateScoring       DriverState = "scoring"
	StateCompleted     DriverState = "completed"
)

// TurnOutcome is what a successful driver operation produced: the assistant
// message that was appended, or the final result once scoring completes.
type TurnOutcome struct {
	Assistant *models.InterviewMessage `json:"assistant,omitempty"`
	Result    *models.InterviewResult  `json:"result,omitempty"`
	State     DriverState              `json:"state"`
}

// DriverOption configures a ConversationDriver.
type DriverOption func(*ConversationDriver)

// WithDriverClock overrides the time source used for response timing.
// Used by tests.
func WithDriverClock(now func() time.Time) DriverOption {
	return func(d *ConversationDriver) {
		d.now = now
	}
}

// ConversationDriver advances the interview one turn at a time. It owns the
// progression through the question list, the response-time measurement and
// the handoff to scoring. At most one external call runs at a time; a second
// operation arriving while one is in flight fails with ErrCallInFlight rather
// than queueing.
//
// On any collaborator failure the driver's state is left exactly where it
// was, so Retry re-runs the same pending step.
type ConversationDriver struct {
	store       *store.TranscriptStore
	interviewer *Interviewer
	scorer      *Scorer

	mu       sync.Mutex
	state    DriverState
	index    int
	refTime  time.Time
	started  bool
	inFlight bool
	ended    *models.InterviewSession

	now func() time.Time
}

func NewConversationDriver(ts *store.TranscriptStore, interviewer *Interviewer, scorer *Scorer, opts ...DriverOption) *ConversationDriver {
	d := &ConversationDriver{
		store:       ts,
		interviewer: interviewer,
		scorer:      scorer,
		state:       StateNotStarted,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the driver's current phase.
func (d *ConversationDriver) State() DriverState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Start begins the interview: it opens the session and generates the opening
// assistant turn (greeting plus first question). Starting twice is a
// sequencing error; a missing prerequisite aborts without mutating anything.
func (d *ConversationDriver) Start(ctx context.Context) (*TurnOutcome, error) {
	if err := d.beginCall(); err != nil {
		return nil, err
	}
	defer d.endCall()

	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return nil, newInvariantViolation("interview already started")
	}
	d.mu.Unlock()

	if _, err := d.store.StartSession(); err != nil {
		return nil, newValidationError("%v", err)
	}

	d.mu.Lock()
	d.started = true
	d.index = 0
	d.state = StateAITurnPending
	d.mu.Unlock()

	return d.runAITurn(ctx)
}

// Submit records the candidate's answer to the pending question, measuring
// the time elapsed since the assistant posed it, then either advances to the
// next question or moves into scoring if this was the last one.
func (d *ConversationDriver) Submit(ctx context.Context, answer string) (*TurnOutcome, error) {
	if err := d.beginCall(); err != nil {
		return nil, err
	}
	defer d.endCall()

	if strings.TrimSpace(answer) == "" {
		return nil, newValidationError("answer must not be empty")
	}

	d.mu.Lock()
	if d.state != StateAwaitingUser {
		state := d.state
		d.mu.Unlock()
		return nil, newInvariantViolation("no question is awaiting an answer (state %s)", state)
	}
	var elapsed int64
	if !d.refTime.IsZero() {
		elapsed = d.now().Sub(d.refTime).Milliseconds()
	}
	index := d.index
	d.mu.Unlock()

	snap := d.store.Snapshot()
	if index >= len(snap.Questions) {
		return nil, newInvariantViolation("question index %d out of range", index)
	}
	current := snap.Questions[index]

	d.store.AddMessage(models.InterviewMessage{
		Role:           models.RoleUser,
		Content:        answer,
		QuestionID:     current.ID,
		ResponseTimeMs: elapsed,
	})

	d.mu.Lock()
	if index+1 < len(snap.Questions) {
		d.index = index + 1
		d.state = StateAITurnPending
		d.mu.Unlock()
		return d.runAITurn(ctx)
	}
	d.state = StateScoring
	d.mu.Unlock()
	return d.runScoring(ctx)
}

// Retry re-runs the pending external step after a collaborator failure. It is
// only meaningful while an AI turn or scoring is pending.
func (d *ConversationDriver) Retry(ctx context.Context) (*TurnOutcome, error) {
	if err := d.beginCall(); err != nil {
		return nil, err
	}
	defer d.endCall()

	d.mu.Lock()
	state := d.state
	d.mu.Unlock()

	switch state {
	case StateAITurnPending:
		return d.runAITurn(ctx)
	case StateScoring:
		return d.runScoring(ctx)
	default:
		return nil, newInvariantViolation("nothing to retry in state %s", state)
	}
}

// runAITurn generates and records the assistant message for the current
// question. On failure the state stays ai_turn_pending.
func (d *ConversationDriver) runAITurn(ctx context.Context) (*TurnOutcome, error) {
	d.mu.Lock()
	index := d.index
	d.mu.Unlock()

	snap := d.store.Snapshot()
	if index >= len(snap.Questions) {
		return nil, newInvariantViolation("question index %d out of range", index)
	}
	current := snap.Questions[index]

	reply, err := d.interviewer.NextTurn(ctx, snap, current)
	if err != nil {
		return nil, err
	}

	msg := d.store.AddMessage(models.InterviewMessage{
		Role:       models.RoleAssistant,
		Content:    reply,
		QuestionID: current.ID,
	})

	d.mu.Lock()
	d.refTime = d.now()
	d.state = StateAwaitingUser
	d.mu.Unlock()

	return &TurnOutcome{Assistant: &msg, State: StateAwaitingUser}, nil
}

// runScoring closes the session, computes the timing aggregates from the
// final transcript and asks the scorer for the evaluation. The session is
// ended at most once; a failed scoring call keeps the ended session around so
// a retry only repeats the external call.
func (d *ConversationDriver) runScoring(ctx context.Context) (*TurnOutcome, error) {
	d.mu.Lock()
	ended := d.ended
	d.mu.Unlock()

	if ended == nil {
		session, err := d.store.EndSession()
		if err != nil {
			return nil, newInvariantViolation("%v", err)
		}
		d.mu.Lock()
		d.ended = session
		d.mu.Unlock()
		ended = session
	}

	average := AverageResponseTime(ended.Messages)
	var total int64
	if ended.EndTime != nil {
		total = TotalDuration(ended.StartTime, *ended.EndTime)
	}

	result, err := d.scorer.Score(ctx, ended, average, total)
	if err != nil {
		return nil, err
	}

	d.store.SetResult(*result)

	d.mu.Lock()
	d.state = StateCompleted
	d.mu.Unlock()

	return &TurnOutcome{Result: result, State: StateCompleted}, nil
}

func (d *ConversationDriver) beginCall() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inFlight {
		return ErrCallInFlight
	}
	d.inFlight = true
	return nil
}

func (d *ConversationDriver) endCall() {
	d.mu.Lock()
	d.inFlight = false
	d.mu.Unlock()
}
