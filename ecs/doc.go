// Package ecs provides ECS adapters for coastline's editor event system.
//
// The primary adapter is [NewDonburiSink], which bridges editor events
// (finished strokes, applied effects, selection and layer changes, stamp
// placement, resizes, project loads) into a [Donburi] world as typed events.
// Subscribe to [EditorEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	editor.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
