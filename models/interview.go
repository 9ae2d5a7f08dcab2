package models

import "time"

// QuestionCategory classifies an interview question.
type QuestionCategory string

const (
	CategoryTechnical   QuestionCategory = "technical"
	CategoryBehavioral  QuestionCategory = "behavioral"
	CategorySituational QuestionCategory = "situational"
)

// Valid reports whether the category is one of the known values.
func (c QuestionCategory) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryBehavioral, CategorySituational:
		return true
	}
	return false
}

// MessageRole identifies the author of a transcript message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// SessionStatus tracks the lifecycle of an interview session.
// It only ever advances forward: pending -> in-progress -> completed.
type SessionStatus string

const (
	StatusPending    SessionStatus = "pending"
	StatusInProgress SessionStatus = "in-progress"
	StatusCompleted  SessionStatus = "completed"
)

// JobDescription is the role the candidate is being interviewed for.
// Immutable once a session has started.
type JobDescription struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Company          string `json:"company,omitempty"`
	Location         string `json:"location,omitempty"`
	JobType          string `json:"job_type,omitempty"`
	Salary           string `json:"salary,omitempty"`
	Requirements     string `json:"requirements,omitempty"`
	Responsibilities string `json:"responsibilities,omitempty"`
}

// CandidateCV holds the extracted plain text of an uploaded CV plus
// upload metadata. The text is treated as opaque after extraction.
type CandidateCV struct {
	RawText    string    `json:"raw_text"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// InterviewQuestion is one generated question. Slice order is interview order.
// FollowUp/ParentQuestionID model follow-up chaining; the driver does not
// exercise it.
type InterviewQuestion struct {
	ID               string           `json:"id"`
	Question         string           `json:"question"`
	Category         QuestionCategory `json:"category"`
	FollowUp         bool             `json:"follow_up,omitempty"`
	ParentQuestionID string           `json:"parent_question_id,omitempty"`
}

// InterviewMessage is a single transcript entry. Messages are append-only:
// content is never mutated after creation. ResponseTimeMs is the elapsed time
// between the assistant prompt that solicited this reply and the reply itself;
// it is zero for assistant messages and for the opening turn.
type InterviewMessage struct {
	ID             string      `json:"id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	Timestamp      time.Time   `json:"timestamp"`
	QuestionID     string      `json:"question_id,omitempty"`
	ResponseTimeMs int64       `json:"response_time_ms,omitempty"`
}

// InterviewSession is the bounded lifetime of one interview, from question
// availability through scoring. Job description, CV and questions are fixed
// at creation; only Messages, EndTime and Status evolve.
type InterviewSession struct {
	ID             string              `json:"id"`
	JobDescription JobDescription      `json:"job_description"`
	CandidateCV    CandidateCV         `json:"candidate_cv"`
	Questions      []InterviewQuestion `json:"questions"`
	Messages       []InterviewMessage  `json:"messages"`
	StartTime      time.Time           `json:"start_time"`
	EndTime        *time.Time          `json:"end_time,omitempty"`
	Status         SessionStatus       `json:"status"`
}
