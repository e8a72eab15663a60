// Package monitoring carries the process-wide diagnostic logger shared by
// the ingest, session and monitor packages.
package monitoring

import "log"

// Logf writes a diagnostic line. It defaults to log.Printf; tests replace
// it via SetLogger to capture or mute output.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger swaps the diagnostic sink and returns the previous one so the
// caller can restore it. A nil sink mutes logging.
func SetLogger(f func(format string, v ...interface{})) func(format string, v ...interface{}) {
	prev := Logf
	if f == nil {
		f = func(string, ...interface{}) {}
	}
	Logf = f
	return prev
}
