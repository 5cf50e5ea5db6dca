// Package transform runs the action pipeline over containers.
//
// A run takes a snapshot of the entry paths of a container and handles
// the manifest first, then every other entry in snapshot order:
//
//	Start -> (Select -> Act -> Record)* -> Finish
//
// Nested archives found along the way are opened in memory and run
// through the same pipeline; their records hang below the record of the
// entry that held them. Per-entry failures are recorded and the run goes
// on; only failures to open or write the top-level container abort it.
package transform
