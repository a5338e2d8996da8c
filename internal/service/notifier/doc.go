// Package notifier turns alarm activations into push notifications.
//
// Notifier.HandleChange is the single entry point shared by every trigger
// front-end. It never fails: dispatch errors are logged and dropped.
package notifier
