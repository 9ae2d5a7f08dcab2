package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hireloop/backend/models"
)

const validScoringJSON = `{
	"technicalAcumen": 8,
	"communicationSkills": 7,
	"responsivenessAgility": 6,
	"problemSolvingAdaptability": 7.5,
	"culturalFitSoftSkills": 9,
	"overallScore": 7,
	"strengths": ["clear explanations", "solid fundamentals"],
	"areasForImprovement": ["more concrete examples"],
	"summary": "A strong candidate with room to grow on specifics."
}`

func completedSession() *models.InterviewSession {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)
	return &models.InterviewSession{
		ID:             "session-1",
		JobDescription: testJobDescription(),
		CandidateCV:    testCV(),
		Messages: []models.InterviewMessage{
			{Role: models.RoleAssistant, Content: "Welcome! First question."},
			{Role: models.RoleUser, Content: "Here is my answer.", ResponseTimeMs: 1200},
		},
		StartTime: start,
		EndTime:   &end,
		Status:    models.StatusCompleted,
	}
}

func TestScoreParsesCriteria(t *testing.T) {
	gen := &stubGenerator{
		generateJSON: func(system, prompt string) (string, error) {
			return validScoringJSON, nil
		},
	}
	scorer := NewScorer(gen)

	result, err := scorer.Score(context.Background(), completedSession(), 1000, 1200000)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if result.SessionID != "session-1" {
		t.Errorf("session id = %q, want session-1", result.SessionID)
	}
	if result.Scoring.TechnicalAcumen != 8 {
		t.Errorf("technical acumen = %v, want 8", result.Scoring.TechnicalAcumen)
	}
	if result.Scoring.OverallScore != 7 {
		t.Errorf("overall score = %v, want 7", result.Scoring.OverallScore)
	}
	if len(result.Scoring.Strengths) != 2 {
		t.Errorf("strengths = %d, want 2", len(result.Scoring.Strengths))
	}
}

func TestScorePassesAggregatesThrough(t *testing.T) {
	gen := &stubGenerator{
		generateJSON: func(system, prompt string) (string, error) {
			return validScoringJSON, nil
		},
	}
	scorer := NewScorer(gen)

	result, err := scorer.Score(context.Background(), completedSession(), 1000, 1200000)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if result.AverageResponseTimeMs != 1000 {
		t.Errorf("average response time = %v, want 1000", result.AverageResponseTimeMs)
	}
	if result.TotalDurationMs != 1200000 {
		t.Errorf("total duration = %v, want 1200000", result.TotalDurationMs)
	}
}

func TestScorePromptIncludesTimingMetrics(t *testing.T) {
	var gotPrompt string
	gen := &stubGenerator{
		generateJSON: func(system, prompt string) (string, error) {
			gotPrompt = prompt
			return validScoringJSON, nil
		},
	}
	scorer := NewScorer(gen)

	if _, err := scorer.Score(context.Background(), completedSession(), 1000, 1200000); err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if !strings.Contains(gotPrompt, "Average response time: 1000ms") {
		t.Error("prompt should carry the average response time")
	}
	if !strings.Contains(gotPrompt, "Total interview duration: 1200000ms") {
		t.Error("prompt should carry the total duration")
	}
}

func TestScorePromptContainsTranscript(t *testing.T) {
	var gotPrompt string
	gen := &stubGenerator{
		generateJSON: func(system, prompt string) (string, error) {
			gotPrompt = prompt
			return validScoringJSON, nil
		},
	}
	scorer := NewScorer(gen)

	if _, err := scorer.Score(context.Background(), completedSession(), 0, 0); err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if !strings.Contains(gotPrompt, "ASSISTANT: Welcome! First question.") {
		t.Error("prompt should contain the assistant line with an uppercased role")
	}
	if !strings.Contains(gotPrompt, "USER: Here is my answer.") {
		t.Error("prompt should contain the candidate line with an uppercased role")
	}
	if !strings.Contains(gotPrompt, "Platform Engineer") {
		t.Error("prompt should contain the job title")
	}
}

func TestScoreClampsOutOfRangeScores(t *testing.T) {
	gen := &stubGenerator{
		generateJSON: func(system, prompt string) (string, error) {
			return `{"technicalAcumen": 15, "communicationSkills": 0, "responsivenessAgility": 5,
				"problemSolvingAdaptability": 5, "culturalFitSoftSkills": 5, "overallScore": -3,
				"strengths": [], "areasForImprovement": [], "summary": "x"}`, nil
		},
	}
	scorer := NewScorer(gen)

	result, err := scorer.Score(context.Background(), completedSession(), 0, 0)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if result.Scoring.TechnicalAcumen != 10 {
		t.Errorf("technical acumen = %v, want clamped to 10", result.Scoring.TechnicalAcumen)
	}
	if result.Scoring.CommunicationSkills != 1 {
		t.Errorf("communication skills = %v, want clamped to 1", result.Scoring.CommunicationSkills)
	}
	if result.Scoring.OverallScore != 1 {
		t.Errorf("overall score = %v, want clamped to 1", result.Scoring.OverallScore)
	}
}

func TestScoreFailures(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "collaborator call fails", err: errors.New("model overloaded")},
		{name: "malformed json", response: "I think the candidate did well."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{
				generateJSON: func(system, prompt string) (string, error) {
					return tt.response, tt.err
				},
			}
			scorer := NewScorer(gen)

			_, err := scorer.Score(context.Background(), completedSession(), 0, 0)
			if err == nil {
				t.Fatal("Score() should fail")
			}

			var collab *CollaboratorError
			if !errors.As(err, &collab) {
				t.Errorf("Score() error = %T, want CollaboratorError", err)
			}
		})
	}
}
