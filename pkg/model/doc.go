// Package model defines the room-design data model shared by the store,
// the geometry builders and the interaction layer: the room descriptor,
// placed furniture and saved designs.
package model
