// Package testutil provides test data generators for canvas components.
//
// It offers customizable stroke payloads, pre-populated operation logs, and
// a recording surface that captures fold output for assertions:
//
//	payload := testutil.Stroke(testutil.WithColor("#ff0000"), testutil.WithPoints(4))
//	log := testutil.PopulatedLog(3)
//
//	var surface testutil.RecordingSurface
//	log.Fold(&surface)
//
// Generators keep test files focused on the behavior under test rather than
// on assembling plausible stroke data.
package testutil
