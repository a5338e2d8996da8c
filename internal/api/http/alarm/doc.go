// Package alarm implements the HTTP transport receiving Realtime Database
// write events.
//
// It decodes the events pushed by the hosting platform (CloudEvents in
// binary or structured mode, or the legacy background function payload)
// into domain changes and hands them to a change handler.
package alarm
