// Package services implements the driving port interfaces. Services contain
// the core business logic and orchestrate calls to driven ports (adapters).
// Services are pure Go with no CGO and depend only on the ports they are given.
package services
