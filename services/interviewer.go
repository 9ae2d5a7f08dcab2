package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hireloop/backend/models"
	"github.com/hireloop/backend/store"
)

const interviewerSystemTemplate = `You are Alex, a friendly and professional recruiter conducting a live interview.

JOB DESCRIPTION:
%s

CANDIDATE CV:
%s

PLANNED QUESTIONS (in order):
%s

CURRENT QUESTION TO ASK:
%s

Guidelines:
- If the conversation is empty, greet the candidate warmly, introduce yourself
  and the role, then ask the current question.
- Otherwise, briefly acknowledge the candidate's last answer in one sentence,
  then ask the current question.
- Ask one question at a time. Keep your turn under 80 words.
- Stay conversational; never mention that you follow a script.`

// Interviewer produces the assistant's next conversational turn.
type Interviewer struct {
	gen contentGenerator
}

func NewInterviewer(gen contentGenerator) *Interviewer {
	return &Interviewer{gen: gen}
}

// NextTurn generates the assistant message that poses the current question,
// grounded in the job description, CV and the conversation so far.
func (iv *Interviewer) NextTurn(ctx context.Context, snap store.Snapshot, current models.InterviewQuestion) (string, error) {
	if snap.JobDescription == nil || snap.CandidateCV == nil {
		return "", newInvariantViolation("interview turn requested without job description or CV")
	}

	jdJSON, err := json.Marshal(snap.JobDescription)
	if err != nil {
		return "", newCollaboratorError("interview turn", fmt.Errorf("marshal job description: %w", err))
	}

	system := fmt.Sprintf(interviewerSystemTemplate, jdJSON, snap.CandidateCV.RawText, formatQuestionList(snap.Questions), current.Question)

	reply, err := iv.gen.GenerateTurn(ctx, system, snap.Messages)
	if err != nil {
		return "", newCollaboratorError("interview turn", err)
	}

	slog.Info("Interview turn generated", "question_id", current.ID, "history", len(snap.Messages))
	return reply, nil
}

func formatQuestionList(questions []models.InterviewQuestion) string {
	lines := make([]string, 0, len(questions))
	for i, q := range questions {
		lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, q.Category, q.Question))
	}
	return strings.Join(lines, "\n")
}
