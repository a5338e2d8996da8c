// Package state reads the watched alarm value from the Realtime Database.
//
// The RealtimeRepository performs conditional reads keyed by ETag and exposes
// a Repository interface that the watcher service depends on.
package state
