// Package room builds the static geometry of a rectangular room from its
// configuration: floor and ceiling planes, four walls with door and window
// openings cut out, glazing panels in the windows and a hinged leaf in each
// door.
//
// Build is pure. The returned Layout can be meshed directly (Wall.Mesh,
// Plane.Mesh) or emitted as a scene graph for the tessellator.
//
// Coordinates are meters, Y up, origin at the centre of the floor. Length
// runs along X and Width along Z.
package room
