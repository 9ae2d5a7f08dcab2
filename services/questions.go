package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hireloop/backend/models"
)

const questionSystemPrompt = `You are Alex, an expert technical recruiter preparing a structured interview.
Given a job description and a candidate's CV, produce 7-8 interview questions
tailored to both. Mix technical, behavioral and situational questions, ordered
so the interview flows naturally from introductions to depth.

Respond with JSON only, in exactly this shape:
{"questions": [{"id": "q1", "question": "...", "category": "technical"}]}

Each category must be one of "technical", "behavioral" or "situational".
Each id must be unique. Do not include any text outside the JSON object.`

// QuestionGenerator asks the AI collaborator for a tailored question set.
type QuestionGenerator struct {
	gen contentGenerator
}

func NewQuestionGenerator(gen contentGenerator) *QuestionGenerator {
	return &QuestionGenerator{gen: gen}
}

type questionSet struct {
	Questions []models.InterviewQuestion `json:"questions"`
}

// Generate builds the prompt from the job description and CV, calls the
// collaborator and validates the returned set. Any failure leaves the caller
// free to retry; nothing is persisted here.
func (q *QuestionGenerator) Generate(ctx context.Context, jd models.JobDescription, cv models.CandidateCV) ([]models.InterviewQuestion, error) {
	jdJSON, err := json.Marshal(jd)
	if err != nil {
		return nil, newCollaboratorError("question generation", fmt.Errorf("marshal job description: %w", err))
	}

	prompt := fmt.Sprintf("JOB DESCRIPTION:\n%s\n\nCANDIDATE CV:\n%s", jdJSON, cv.RawText)

	raw, err := q.gen.GenerateJSON(ctx, questionSystemPrompt, prompt)
	if err != nil {
		return nil, newCollaboratorError("question generation", err)
	}

	var set questionSet
	if err := json.Unmarshal([]byte(extractJSON(raw)), &set); err != nil {
		return nil, newCollaboratorError("question generation", fmt.Errorf("parse response: %w", err))
	}

	if err := validateQuestions(set.Questions); err != nil {
		return nil, newCollaboratorError("question generation", err)
	}

	slog.Info("Generated interview questions", "count", len(set.Questions))
	return set.Questions, nil
}

func validateQuestions(questions []models.InterviewQuestion) error {
	if len(questions) == 0 {
		return fmt.Errorf("response contained no questions")
	}

	seen := make(map[string]struct{}, len(questions))
	for i, question := range questions {
		if strings.TrimSpace(question.ID) == "" {
			return fmt.Errorf("question %d has an empty id", i)
		}
		if _, ok := seen[question.ID]; ok {
			return fmt.Errorf("duplicate question id %q", question.ID)
		}
		seen[question.ID] = struct{}{}

		if strings.TrimSpace(question.Question) == "" {
			return fmt.Errorf("question %q has empty text", question.ID)
		}
		if !question.Category.Valid() {
			return fmt.Errorf("question %q has unknown category %q", question.ID, question.Category)
		}
	}
	return nil
}
