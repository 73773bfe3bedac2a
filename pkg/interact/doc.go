// Package interact turns pointer input into furniture transforms.
//
// A Controller exists per placed item. It moves between Idle, Hovered,
// Dragging and Resizing, and writes position, rotation and size changes to
// the design store. Drag and resize gestures take the store's gesture lock
// for their whole duration, so only one item transforms at a time and camera
// navigation stays off while it does.
//
// Controllers are not safe for concurrent use. The scene composer calls
// them under its own lock and hands them a Scheduler whose callbacks take
// that same lock.
package interact
