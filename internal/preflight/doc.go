// Package preflight provides readiness checks for the filesystem paths and
// dataset store timbre depends on.
//
// The CLI "timbre check" command runs RunAll and prints one row per check.
// Checks for optional features (genre source directory, run history) are
// skipped when the feature is not configured.
package preflight
