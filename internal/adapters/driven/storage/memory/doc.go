// Package memory provides in-memory implementations of the storage ports.
// VectorIndex backs every query at runtime; CorpusStore and IndexStore are
// used by tests and short-lived runs that never touch disk.
package memory
