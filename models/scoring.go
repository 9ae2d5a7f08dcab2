package models

import "time"

// ScoringCriteria is the structured evaluation returned by the scoring
// collaborator. Sub-scores are on a 1-10 scale.
type ScoringCriteria struct {
	TechnicalAcumen            float64  `json:"technicalAcumen"`
	CommunicationSkills        float64  `json:"communicationSkills"`
	ResponsivenessAgility      float64  `json:"responsivenessAgility"`
	ProblemSolvingAdaptability float64  `json:"problemSolvingAdaptability"`
	CulturalFitSoftSkills      float64  `json:"culturalFitSoftSkills"`
	OverallScore               float64  `json:"overallScore"`
	Strengths                  []string `json:"strengths"`
	AreasForImprovement        []string `json:"areasForImprovement"`
	Summary                    string   `json:"summary"`
}

// InterviewResult pairs the scoring with the timing aggregates computed from
// the transcript. Created exactly once per completed session.
type InterviewResult struct {
	SessionID             string          `json:"session_id"`
	Scoring               ScoringCriteria `json:"scoring"`
	AverageResponseTimeMs float64         `json:"average_response_time_ms"`
	TotalDurationMs       int64           `json:"total_duration_ms"`
	Timestamp             time.Time       `json:"timestamp"`
}
