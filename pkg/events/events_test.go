package events

import (
	"context"
	"testing"
)

func TestSubject(t *testing.T) {
	got := Subject("tickets", "note_added", "65f0c0ffee")
	if got != "tickets.ticket.note_added.65f0c0ffee" {
		t.Errorf("Subject = %q", got)
	}
}

func TestNilPublisherIsNoop(t *testing.T) {
	p := NewPublisher(nil, "tickets")
	if p != nil {
		t.Fatal("NewPublisher(nil) should return nil")
	}
	// Must not panic.
	p.Publish(context.Background(), "created", "id", map[string]string{"a": "b"})
}
