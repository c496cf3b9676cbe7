// Package snapshot persists the harvested corpus as a single JSON file.
//
// The file is an array of post objects written with two-space indentation.
// Saves write to a temporary file in the same directory and rename it over
// the target, so readers only ever see a complete snapshot. An advisory lock
// on "<path>.lock" serialises writers across processes.
package snapshot
