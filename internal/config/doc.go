// Package config defines the settings used by the notifier binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the Firebase credentials and project, the watched
// database path, and the receiver and watcher tuning knobs.
package config
