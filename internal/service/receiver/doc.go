// Package receiver runs the HTTP server receiving database write events and
// dispatching them to the notifier.
package receiver
