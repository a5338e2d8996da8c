// Package platform performs the once-per-process Firebase initialization.
//
// A Platform is built at start-up from the configuration and handed to the
// services that need the messaging or database clients.
package platform
