package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hireloop/backend/models"
	ws "github.com/hireloop/backend/websocket"
)

func receiveEnvelope(t *testing.T, c *ws.Client) ws.Message {
	t.Helper()
	select {
	case data := <-c.Send:
		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for an envelope")
		return ws.Message{}
	}
}

func TestSendOutcomeBroadcastsToAllClients(t *testing.T) {
	hub := ws.NewHub()
	go hub.Run()

	caller := hub.RegisterClient(nil)
	observer := hub.RegisterClient(nil)

	handler := &WebSocketHandler{}
	outcome := &TurnOutcome{
		Assistant: &models.InterviewMessage{
			Role:    models.RoleAssistant,
			Content: "Welcome, let's begin.",
		},
		State: StateAwaitingUser,
	}

	handler.sendOutcome(caller, outcome)

	for _, client := range []*ws.Client{caller, observer} {
		msg := receiveEnvelope(t, client)
		if msg.Type != "assistant" {
			t.Errorf("envelope type = %q, want assistant", msg.Type)
		}
		if msg.Content != "Welcome, let's begin." {
			t.Errorf("envelope content = %q", msg.Content)
		}

		var got TurnOutcome
		if err := json.Unmarshal(msg.Payload, &got); err != nil {
			t.Fatalf("failed to unmarshal payload: %v", err)
		}
		if got.State != StateAwaitingUser {
			t.Errorf("payload state = %q, want %q", got.State, StateAwaitingUser)
		}
	}
}

func TestSendOutcomeBroadcastsResult(t *testing.T) {
	hub := ws.NewHub()
	go hub.Run()

	caller := hub.RegisterClient(nil)

	handler := &WebSocketHandler{}
	outcome := &TurnOutcome{
		Result: &models.InterviewResult{
			SessionID: "session-1",
			Scoring:   models.ScoringCriteria{OverallScore: 7},
		},
		State: StateCompleted,
	}

	handler.sendOutcome(caller, outcome)

	msg := receiveEnvelope(t, caller)
	if msg.Type != "result" {
		t.Errorf("envelope type = %q, want result", msg.Type)
	}

	var got TurnOutcome
	if err := json.Unmarshal(msg.Payload, &got); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if got.Result == nil || got.Result.Scoring.OverallScore != 7 {
		t.Errorf("unexpected result payload: %+v", got.Result)
	}
}
