package services

import (
	"context"

	"github.com/hireloop/backend/models"
)

// stubGenerator implements contentGenerator with canned behavior per test.
type stubGenerator struct {
	generateJSON func(system, prompt string) (string, error)
	generateTurn func(system string, history []models.InterviewMessage) (string, error)

	jsonCalls int
	turnCalls int
}

func (s *stubGenerator) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	s.jsonCalls++
	return s.generateJSON(system, prompt)
}

func (s *stubGenerator) GenerateTurn(ctx context.Context, system string, history []models.InterviewMessage) (string, error) {
	s.turnCalls++
	return s.generateTurn(system, history)
}
