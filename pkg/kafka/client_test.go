package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"roleplay-coach-go/internal/model"
	"roleplay-coach-go/pkg/events"
	"testing"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishSessionScored(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "roleplay.session-scored")

	event := events.SessionScored{
		SessionID:    "Angry-service-downtime-1",
		PersonaID:    "Angry",
		ScenarioID:   "service-downtime",
		TurnCount:    2,
		OverallScore: 60,
		Metrics:      []model.Metric{{Name: "Empathy", Score: 64}},
	}
	if err := p.PublishSessionScored(context.Background(), event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != event.SessionID {
		t.Errorf("Expected key %q, got %q", event.SessionID, msg.Key)
	}
	var got events.SessionScored
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("Invalid payload: %v", err)
	}
	if got.OverallScore != 60 || got.TurnCount != 2 {
		t.Errorf("Unexpected payload: %+v", got)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "session.scored" {
		t.Errorf("Unexpected headers: %+v", msg.Headers)
	}

	_ = p.Close()
	if !w.closed {
		t.Error("Expected writer to be closed")
	}
}

func TestPublishSessionScoredError(t *testing.T) {
	broker := errors.New("broker down")
	p := NewProducerWithWriter(&recordingWriter{err: broker}, "t")

	if err := p.PublishSessionScored(context.Background(), events.SessionScored{SessionID: "s"}); !errors.Is(err, broker) {
		t.Errorf("Expected wrapped broker error, got %v", err)
	}
}
