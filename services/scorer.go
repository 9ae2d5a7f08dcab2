package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hireloop/backend/models"
)

const scoringSystemPrompt = `You are an expert hiring evaluator. You will receive a job description, a
candidate CV and the full transcript of an interview. Evaluate the candidate's
performance on these criteria, each scored 1-10:

- technicalAcumen: depth and accuracy of technical knowledge
- communicationSkills: clarity, structure and listening
- responsivenessAgility: how directly and quickly answers address the question,
  weighing the measured response times in the interview metrics
- problemSolvingAdaptability: reasoning under unfamiliar or shifting problems
- culturalFitSoftSkills: collaboration, attitude and self-awareness

Respond with JSON only, in exactly this shape:
{"technicalAcumen": 0, "communicationSkills": 0, "responsivenessAgility": 0,
"problemSolvingAdaptability": 0, "culturalFitSoftSkills": 0, "overallScore": 0,
"strengths": ["..."], "areasForImprovement": ["..."], "summary": "..."}

overallScore is your holistic 1-10 judgement, not a mechanical average.
Base every judgement strictly on the transcript. Do not include any text
outside the JSON object.`

// Scorer evaluates a completed interview session.
type Scorer struct {
	gen contentGenerator
}

func NewScorer(gen contentGenerator) *Scorer {
	return &Scorer{gen: gen}
}

// Score sends the completed transcript for evaluation and combines the
// returned criteria with the timing aggregates computed by the caller. The
// aggregates pass through untouched; scoring never recomputes them.
func (sc *Scorer) Score(ctx context.Context, session *models.InterviewSession, averageResponseTimeMs float64, totalDurationMs int64) (*models.InterviewResult, error) {
	jdJSON, err := json.Marshal(session.JobDescription)
	if err != nil {
		return nil, newCollaboratorError("scoring", fmt.Errorf("marshal job description: %w", err))
	}

	prompt := fmt.Sprintf(
		"JOB DESCRIPTION:\n%s\n\nCANDIDATE CV:\n%s\n\nINTERVIEW TRANSCRIPT:\n%s\n\nINTERVIEW METRICS:\nAverage response time: %.0fms\nTotal interview duration: %dms",
		jdJSON, session.CandidateCV.RawText, formatTranscript(session.Messages),
		averageResponseTimeMs, totalDurationMs,
	)

	raw, err := sc.gen.GenerateJSON(ctx, scoringSystemPrompt, prompt)
	if err != nil {
		return nil, newCollaboratorError("scoring", err)
	}

	var criteria models.ScoringCriteria
	if err := json.Unmarshal([]byte(extractJSON(raw)), &criteria); err != nil {
		return nil, newCollaboratorError("scoring", fmt.Errorf("parse response: %w", err))
	}
	clampCriteria(&criteria)

	result := &models.InterviewResult{
		SessionID:             session.ID,
		Scoring:               criteria,
		AverageResponseTimeMs: averageResponseTimeMs,
		TotalDurationMs:       totalDurationMs,
		Timestamp:             session.StartTime,
	}
	if session.EndTime != nil {
		result.Timestamp = *session.EndTime
	}

	slog.Info("Interview scored", "session_id", session.ID, "overall", criteria.OverallScore)
	return result, nil
}

func formatTranscript(messages []models.InterviewMessage) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		role := strings.ToUpper(string(msg.Role))
		lines = append(lines, fmt.Sprintf("%s: %s", role, msg.Content))
	}
	return strings.Join(lines, "\n\n")
}

func clampCriteria(c *models.ScoringCriteria) {
	for _, score := range []*float64{
		&c.TechnicalAcumen,
		&c.CommunicationSkills,
		&c.ResponsivenessAgility,
		&c.ProblemSolvingAdaptability,
		&c.CulturalFitSoftSkills,
		&c.OverallScore,
	} {
		if *score < 1 {
			*score = 1
		}
		if *score > 10 {
			*score = 10
		}
	}
}
