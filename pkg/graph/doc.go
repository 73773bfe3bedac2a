// Package graph defines the scene graph for roomkit.
// The scene graph is an immutable DAG of primitives, transforms and groups
// describing the room shell and the furniture placed in it. Builders
// (room, furniture) emit graphs; the tessellator turns them into meshes.
package graph
