package ecs

import (
	"github.com/phanxgames/coastline"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EditorEventType is the Donburi event type for coastline editor events.
var EditorEventType = events.NewEventType[coastline.EditorEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Editor events are published to EditorEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) coastline.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event coastline.EditorEvent) {
	EditorEventType.Publish(s.world, event)
}
