package services

import (
	"context"
	"encoding/json"
	"log/slog"

	ws "github.com/hireloop/backend/websocket"
)

// WebSocketHandler bridges websocket clients to the conversation driver so a
// frontend can run the whole interview over one connection.
type WebSocketHandler struct {
	endpoints *InterviewEndpoints
}

func NewWebSocketHandler(endpoints *InterviewEndpoints) *WebSocketHandler {
	return &WebSocketHandler{endpoints: endpoints}
}

// HandleWebSocketMessage dispatches one incoming envelope. The driver is
// looked up per message so a reset over HTTP takes effect here too.
func (h *WebSocketHandler) HandleWebSocketMessage(client *ws.Client, messageBytes []byte) {
	var msg ws.Message
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		slog.Error("Failed to unmarshal websocket message", "error", err, "conn_id", client.ConnID)
		client.SendMessage(ws.Message{Type: "error", Content: "invalid message"})
		return
	}

	driver := h.endpoints.Driver()
	ctx := context.Background()

	var (
		outcome *TurnOutcome
		err     error
	)
	switch msg.Type {
	case "start":
		outcome, err = driver.Start(ctx)
	case "answer":
		outcome, err = driver.Submit(ctx, msg.Content)
	case "retry":
		outcome, err = driver.Retry(ctx)
	default:
		slog.Warn("Unknown websocket message type", "type", msg.Type, "conn_id", client.ConnID)
		client.SendMessage(ws.Message{Type: "error", Content: "unknown message type: " + msg.Type})
		return
	}

	if err != nil {
		slog.Error("Driver operation failed", "type", msg.Type, "error", err, "conn_id", client.ConnID)
		client.SendMessage(ws.Message{Type: "error", Content: err.Error()})
		return
	}

	h.sendOutcome(client, outcome)
}

// sendOutcome broadcasts the envelope hub-wide so every connected client
// mirrors the interview; errors stay private to the client that caused them.
func (h *WebSocketHandler) sendOutcome(client *ws.Client, outcome *TurnOutcome) {
	payload, err := json.Marshal(outcome)
	if err != nil {
		slog.Error("Failed to marshal turn outcome", "error", err)
		client.SendMessage(ws.Message{Type: "error", Content: "internal error"})
		return
	}

	var msg ws.Message
	switch {
	case outcome.Result != nil:
		msg = ws.Message{Type: "result", Payload: payload}
	case outcome.Assistant != nil:
		msg = ws.Message{Type: "assistant", Content: outcome.Assistant.Content, Payload: payload}
	default:
		msg = ws.Message{Type: "state", Payload: payload}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal envelope", "error", err, "type", msg.Type)
		return
	}
	client.Hub.Broadcast(data)
}
