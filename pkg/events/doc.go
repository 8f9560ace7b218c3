// Package events delivers named entity events from the managers to
// interested code.
//
// Two delivery styles share one Emitter:
//
//   - Listeners registered with On run synchronously inside Emit, in
//     registration order. A panicking listener is recovered and logged; the
//     remaining listeners still run. The name "*" matches every event.
//   - Subscribe returns a buffered channel fed without blocking. When a
//     subscriber's buffer is full the event is dropped for that subscriber.
//     Cancelling the subscription context closes the channel.
//
// Event names follow "<kind>.<action>", for example "theme.created" or
// "preset.default_changed". Use Name to build them.
//
// A nil *Emitter is valid and discards everything, so managers can be used
// without wiring events.
package events
