package services

import (
	"encoding/json"
	"testing"

	"github.com/Thonzy/Inventory-App/internal/models"
)

type captureHub struct {
	messages [][]byte
}

func (c *captureHub) BroadcastEvent(message []byte) {
	c.messages = append(c.messages, message)
}

func TestCreateEvent_PersistsAndBroadcasts(t *testing.T) {
	t.Parallel()

	hub := &captureHub{}
	svc := NewEventService(newTestDB(t), hub)

	subject := "p1"
	if err := svc.CreateEvent("product.create", "info", "Product 'Widget' added to inventory.", &subject); err != nil {
		t.Fatalf("CreateEvent error: %v", err)
	}

	events, err := svc.GetRecentEvents(10)
	if err != nil {
		t.Fatalf("GetRecentEvents error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events: got %d want 1", len(events))
	}
	if events[0].Type != "product.create" || events[0].SubjectID == nil || *events[0].SubjectID != "p1" {
		t.Fatalf("event round trip wrong: %+v", events[0])
	}

	if len(hub.messages) != 1 {
		t.Fatalf("broadcasts: got %d want 1", len(hub.messages))
	}
	var broadcast models.Event
	if err := json.Unmarshal(hub.messages[0], &broadcast); err != nil {
		t.Fatalf("decode broadcast: %v", err)
	}
	if broadcast.Type != "product.create" {
		t.Fatalf("broadcast payload wrong: %+v", broadcast)
	}
}

func TestGetRecentEvents_Limit(t *testing.T) {
	t.Parallel()

	svc := NewEventService(newTestDB(t), nil)

	for i := 0; i < 5; i++ {
		if err := svc.CreateEvent("user.login", "info", "User logged in.", nil); err != nil {
			t.Fatalf("CreateEvent error: %v", err)
		}
	}

	events, err := svc.GetRecentEvents(3)
	if err != nil {
		t.Fatalf("GetRecentEvents error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events: got %d want 3", len(events))
	}
}
