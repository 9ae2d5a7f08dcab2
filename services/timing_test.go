package services

import (
	"testing"
	"time"

	"github.com/hireloop/backend/models"
)

func TestAverageResponseTime(t *testing.T) {
	tests := []struct {
		name     string
		messages []models.InterviewMessage
		want     float64
	}{
		{
			name:     "no messages",
			messages: nil,
			want:     0,
		},
		{
			name: "only assistant messages",
			messages: []models.InterviewMessage{
				{Role: models.RoleAssistant, Content: "Q1"},
				{Role: models.RoleAssistant, Content: "Q2"},
			},
			want: 0,
		},
		{
			name: "untimed reply excluded",
			messages: []models.InterviewMessage{
				{Role: models.RoleUser, Content: "hello", ResponseTimeMs: 0},
				{Role: models.RoleUser, Content: "answer", ResponseTimeMs: 200},
			},
			want: 200,
		},
		{
			name: "mixed roles and timings",
			messages: []models.InterviewMessage{
				{Role: models.RoleAssistant, Content: "Q1"},
				{Role: models.RoleUser, Content: "A1", ResponseTimeMs: 100},
				{Role: models.RoleAssistant, Content: "Q2"},
				{Role: models.RoleUser, Content: "A2", ResponseTimeMs: 300},
			},
			want: 200,
		},
		{
			name: "happy path averages to a second",
			messages: []models.InterviewMessage{
				{Role: models.RoleUser, Content: "A1", ResponseTimeMs: 1200},
				{Role: models.RoleUser, Content: "A2", ResponseTimeMs: 800},
			},
			want: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AverageResponseTime(tt.messages); got != tt.want {
				t.Errorf("AverageResponseTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterTimed(t *testing.T) {
	messages := []models.InterviewMessage{
		{Role: models.RoleAssistant, Content: "Q1"},
		{Role: models.RoleUser, Content: "A1", ResponseTimeMs: 500},
		{Role: models.RoleUser, Content: "untimed"},
		{Role: models.RoleSystem, Content: "note", ResponseTimeMs: 999},
	}

	timed := FilterTimed(messages)
	if len(timed) != 1 {
		t.Fatalf("FilterTimed() returned %d messages, want 1", len(timed))
	}
	if timed[0].Content != "A1" {
		t.Errorf("FilterTimed() kept %q, want A1", timed[0].Content)
	}
}

func TestTotalDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if got := TotalDuration(start, start.Add(90*time.Second)); got != 90000 {
		t.Errorf("TotalDuration() = %d, want 90000", got)
	}
	if got := TotalDuration(start, start); got != 0 {
		t.Errorf("TotalDuration() of empty span = %d, want 0", got)
	}
}
