// Package alarm contains core domain types for the alarm notification logic.
//
// It defines Change (the before/after pair delivered for a database write),
// State (the watched value as last observed) and the fixed alert
// Notification sent when the alarm is switched on.
package alarm
