package websocket

import (
	"testing"
	"time"
)

func receiveOrTimeout(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.Send:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a message")
		return nil
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := hub.RegisterClient(nil)
	second := hub.RegisterClient(nil)

	hub.Broadcast([]byte(`{"type":"assistant","content":"hello"}`))

	for _, client := range []*Client{first, second} {
		got := receiveOrTimeout(t, client)
		if string(got) != `{"type":"assistant","content":"hello"}` {
			t.Errorf("client %s received %q", client.ConnID, got)
		}
	}
}

func TestRegisterClientAssignsConnID(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := hub.RegisterClient(nil)
	second := hub.RegisterClient(nil)

	if first.ConnID == "" || second.ConnID == "" {
		t.Error("clients should get connection ids")
	}
	if first.ConnID == second.ConnID {
		t.Error("connection ids should be unique")
	}
}

func TestSendMessageDropsWhenBufferFull(t *testing.T) {
	client := &Client{Send: make(chan []byte, 1)}

	client.SendMessage(Message{Type: "assistant", Content: "first"})
	client.SendMessage(Message{Type: "assistant", Content: "second"})

	if got := len(client.Send); got != 1 {
		t.Errorf("send buffer holds %d messages, want 1 (overflow dropped)", got)
	}
}
