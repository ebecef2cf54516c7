package ecs

import (
	"testing"

	"github.com/phanxgames/coastline"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	if NewDonburiSink(world) == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []coastline.EditorEvent
	EditorEventType.Subscribe(world, func(w donburi.World, e coastline.EditorEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(coastline.EditorEvent{
		Type: coastline.EventStampPlaced,
		IDs:  []string{"s1"},
		X:    100,
		Y:    200,
	})
	sink.EmitEvent(coastline.EditorEvent{
		Type:   coastline.EventCanvasResized,
		Width:  640,
		Height: 480,
	})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("received %d events before processing", len(received))
	}
	EditorEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("received %d events, want 2", len(received))
	}
	if e := received[0]; e.Type != coastline.EventStampPlaced || e.IDs[0] != "s1" || e.X != 100 || e.Y != 200 {
		t.Errorf("event 0 = %+v", e)
	}
	if e := received[1]; e.Type != coastline.EventCanvasResized || e.Width != 640 || e.Height != 480 {
		t.Errorf("event 1 = %+v", e)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	EditorEventType.Subscribe(world, func(w donburi.World, e coastline.EditorEvent) {
		count1++
	})
	EditorEventType.Subscribe(world, func(w donburi.World, e coastline.EditorEvent) {
		count2++
	})

	sink.EmitEvent(coastline.EditorEvent{Type: coastline.EventLayersChanged})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("subscriber calls = %d and %d, want 1 and 1", count1, count2)
	}
}

func TestDonburiSink_FromEditor(t *testing.T) {
	world := donburi.NewWorld()
	e, err := coastline.NewEditor(coastline.Config{Width: 32, Height: 32})
	if err != nil {
		t.Fatal(err)
	}
	e.SetEventSink(NewDonburiSink(world))

	var types []coastline.EventType
	EditorEventType.Subscribe(world, func(w donburi.World, ev coastline.EditorEvent) {
		types = append(types, ev.Type)
	})

	if err := e.Resize(64, 48); err != nil {
		t.Fatal(err)
	}
	EditorEventType.ProcessEvents(world)

	found := false
	for _, typ := range types {
		if typ == coastline.EventCanvasResized {
			found = true
		}
	}
	if !found {
		t.Errorf("events = %v, want a canvas-resized event", types)
	}
}
