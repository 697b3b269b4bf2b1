package logging

import "strings"

// FormatSubject builds the bracketed run subject used in console output. Run
// identifiers are shortened to their first eight characters.
func FormatSubject(runID string) string {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return ""
	}
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return "run " + runID
}
