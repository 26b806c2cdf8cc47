package web

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dbehnke/iq-verify/pkg/harness"
	"github.com/dbehnke/iq-verify/pkg/logger"
	"github.com/dbehnke/iq-verify/pkg/sdr"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error"})
}

func TestWebSocketHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewWebSocketHub(testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go hub.Run(ctx)

	// Must not panic or block with no clients connected
	hub.Broadcast(Event{Type: "test", Data: map[string]interface{}{"message": "hello"}})
	time.Sleep(50 * time.Millisecond)
}

func TestWebSocketHub_CaseEventsReachClient(t *testing.T) {
	hub := NewWebSocketHub(testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	defer conn.Close()

	// Give the hub time to register the client
	deadline := time.Now().Add(time.Second)
	for hub.GetClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.GetClientCount() != 1 {
		t.Fatal("client never registered with hub")
	}

	tc := harness.TestCase{
		RXLayout:   sdr.LayoutRX2,
		TXLayout:   sdr.LayoutTX2,
		Format:     sdr.FormatSC16Q11,
		NumSamples: 1024,
	}
	hub.CaseStarted(tc)
	hub.CaseFinished(tc, harness.ErrTransform)

	conn.SetReadDeadline(time.Now().Add(time.Second))

	var started Event
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read case_started: %v", err)
	}
	if err := json.Unmarshal(msg, &started); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if started.Type != "case_started" {
		t.Errorf("first event type %q, want case_started", started.Type)
	}
	if started.Data["format"] != "SC16_Q11" {
		t.Errorf("unexpected format in event data: %v", started.Data["format"])
	}

	var finished Event
	_, msg, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read case_finished: %v", err)
	}
	if err := json.Unmarshal(msg, &finished); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if finished.Type != "case_finished" {
		t.Errorf("second event type %q, want case_finished", finished.Type)
	}
	if passed, ok := finished.Data["passed"].(bool); !ok || passed {
		t.Errorf("expected passed=false in event data, got %v", finished.Data["passed"])
	}
}
