package services

import (
	"time"

	"github.com/hireloop/backend/models"
)

// FilterTimed returns the candidate messages that carry a measured response
// time. Assistant messages and untimed replies (such as the opening exchange)
// are excluded.
func FilterTimed(messages []models.InterviewMessage) []models.InterviewMessage {
	var timed []models.InterviewMessage
	for _, msg := range messages {
		if msg.Role == models.RoleUser && msg.ResponseTimeMs > 0 {
			timed = append(timed, msg)
		}
	}
	return timed
}

// AverageResponseTime computes the mean response time in milliseconds over
// the timed candidate messages. Returns 0 when none are timed.
func AverageResponseTime(messages []models.InterviewMessage) float64 {
	timed := FilterTimed(messages)
	if len(timed) == 0 {
		return 0
	}

	var total int64
	for _, msg := range timed {
		total += msg.ResponseTimeMs
	}
	return float64(total) / float64(len(timed))
}

// TotalDuration returns the wall-clock span of the session in milliseconds.
func TotalDuration(start, end time.Time) int64 {
	return end.Sub(start).Milliseconds()
}
