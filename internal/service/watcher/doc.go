// Package watcher polls the alarm value in the Realtime Database and feeds
// every observed write to the notifier.
package watcher
