// Package store owns the canonical state of one interview: job description,
// candidate CV, generated questions, the message log and the session
// lifecycle. It is an explicit session-scoped object, constructed per
// interview and passed by reference, rather than a process-wide singleton.
package store

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hireloop/backend/models"
)

var (
	// ErrMissingPrerequisites is returned when StartSession is called before
	// a job description, CV and at least one question are all set.
	ErrMissingPrerequisites = errors.New("cannot start session: missing job description, CV, or questions")
	// ErrNoActiveSession is returned when EndSession is called with no
	// in-progress session.
	ErrNoActiveSession = errors.New("cannot end session: no active session")
)

// Option configures a TranscriptStore.
type Option func(*TranscriptStore)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *TranscriptStore) {
		s.now = now
	}
}

// TranscriptStore is the single source of truth for session-scoped state.
// All mutations are atomic; reads go through Snapshot. Safe for use from
// HTTP and websocket handlers concurrently, though one driver instance is
// expected to own the session lifecycle.
type TranscriptStore struct {
	mu sync.Mutex

	jobDescription *models.JobDescription
	candidateCV    *models.CandidateCV
	questions      []models.InterviewQuestion
	messages       []models.InterviewMessage
	session        *models.InterviewSession
	result         *models.InterviewResult

	now func() time.Time
}

// Snapshot is a point-in-time copy of the store state.
type Snapshot struct {
	JobDescription *models.JobDescription    `json:"job_description,omitempty"`
	CandidateCV    *models.CandidateCV       `json:"candidate_cv,omitempty"`
	Questions      []models.InterviewQuestion `json:"questions"`
	Messages       []models.InterviewMessage  `json:"messages"`
	Session        *models.InterviewSession   `json:"session,omitempty"`
	Result         *models.InterviewResult    `json:"result,omitempty"`
}

func NewTranscriptStore(opts ...Option) *TranscriptStore {
	s := &TranscriptStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetJobDescription replaces the job description unconditionally.
func (s *TranscriptStore) SetJobDescription(jd models.JobDescription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobDescription = &jd
}

// SetCandidateCV replaces the candidate CV unconditionally.
func (s *TranscriptStore) SetCandidateCV(cv models.CandidateCV) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidateCV = &cv
}

// SetQuestions replaces the question set unconditionally.
func (s *TranscriptStore) SetQuestions(questions []models.InterviewQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append([]models.InterviewQuestion(nil), questions...)
}

// StartSession creates a new in-progress session from the current job
// description, CV and questions. Any messages accumulated before the session
// officially begins are discarded; pre-session messages carry no meaning in
// this flow. A precondition violation is logged and leaves the store
// untouched.
func (s *TranscriptStore) StartSession() (*models.InterviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.jobDescription == nil || s.candidateCV == nil || len(s.questions) == 0 {
		slog.Error("Cannot start session", "error", ErrMissingPrerequisites)
		return nil, ErrMissingPrerequisites
	}

	session := &models.InterviewSession{
		ID:             uuid.New().String(),
		JobDescription: *s.jobDescription,
		CandidateCV:    *s.candidateCV,
		Questions:      append([]models.InterviewQuestion(nil), s.questions...),
		Messages:       []models.InterviewMessage{},
		StartTime:      s.now(),
		Status:         models.StatusInProgress,
	}

	s.session = session
	s.messages = nil
	s.result = nil

	slog.Info("Interview session started", "session_id", session.ID, "questions", len(session.Questions))
	return copySession(session), nil
}

// EndSession copies the current message log into the session, stamps the end
// time and marks it completed. Calling it with no active session is logged
// and leaves the store untouched. The mutation itself is synchronous, so it
// is safe to call from asynchronous callers without further coordination.
func (s *TranscriptStore) EndSession() (*models.InterviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.Status != models.StatusInProgress {
		slog.Error("Cannot end session", "error", ErrNoActiveSession)
		return nil, ErrNoActiveSession
	}

	end := s.now()
	s.session.Messages = append([]models.InterviewMessage(nil), s.messages...)
	s.session.EndTime = &end
	s.session.Status = models.StatusCompleted

	slog.Info("Interview session ended", "session_id", s.session.ID, "messages", len(s.session.Messages))
	return copySession(s.session), nil
}

// AddMessage assigns a fresh id and timestamp, appends the message to the
// free-standing log and to the active session's embedded log, and returns the
// finalized message. Timing known at creation rides along in msg; there is no
// separate finalize step for the main flow.
func (s *TranscriptStore) AddMessage(msg models.InterviewMessage) models.InterviewMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.ID = uuid.New().String()
	msg.Timestamp = s.now()

	s.messages = append(s.messages, msg)
	if s.session != nil {
		s.session.Messages = append(s.session.Messages, msg)
	}

	return msg
}

// UpdateMessageResponseTime sets the timing field of the message with the
// given id in both logs. Unknown ids are a no-op.
func (s *TranscriptStore) UpdateMessageResponseTime(id string, responseTimeMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].ResponseTimeMs = responseTimeMs
			break
		}
	}
	if s.session != nil {
		for i := range s.session.Messages {
			if s.session.Messages[i].ID == id {
				s.session.Messages[i].ResponseTimeMs = responseTimeMs
				break
			}
		}
	}
}

// SetResult records the final interview result.
func (s *TranscriptStore) SetResult(result models.InterviewResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = &result
}

// Snapshot returns a point-in-time copy of the store. Reading twice without
// an intervening mutation yields identical snapshots.
func (s *TranscriptStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Questions: append([]models.InterviewQuestion(nil), s.questions...),
		Messages:  append([]models.InterviewMessage(nil), s.messages...),
	}
	if s.jobDescription != nil {
		jd := *s.jobDescription
		snap.JobDescription = &jd
	}
	if s.candidateCV != nil {
		cv := *s.candidateCV
		snap.CandidateCV = &cv
	}
	if s.session != nil {
		snap.Session = copySession(s.session)
	}
	if s.result != nil {
		res := *s.result
		snap.Result = &res
	}
	return snap
}

// Reset clears all state back to initial empty values. Callers must ensure no
// external call is outstanding when resetting.
func (s *TranscriptStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobDescription = nil
	s.candidateCV = nil
	s.questions = nil
	s.messages = nil
	s.session = nil
	s.result = nil

	slog.Info("Transcript store reset")
}

func copySession(session *models.InterviewSession) *models.InterviewSession {
	out := *session
	out.Questions = append([]models.InterviewQuestion(nil), session.Questions...)
	out.Messages = append([]models.InterviewMessage(nil), session.Messages...)
	if session.EndTime != nil {
		end := *session.EndTime
		out.EndTime = &end
	}
	return &out
}
