// Package store holds the design session: the active room configuration,
// the placed furniture, the saved designs and the workflow step, plus the
// gesture lock that keeps furniture manipulation and camera navigation
// mutually exclusive.
//
// A Store is created by the composition root with a Repository for the
// durable part of the state (saved designs and the current design id).
// All mutations are serialized; listeners registered with Subscribe run
// after each mutation, outside the lock, and observe the complete new
// state.
package store
