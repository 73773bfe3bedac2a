// Package scene composes the live 3D view: the room shell, the door leaves
// and one transform controller per placed furniture item.
//
// The Composer routes pointer events from the frontend to controllers, the
// active gesture or the camera, advances door animation on Tick, and
// assembles Frames of meshes for rendering.
package scene
