// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DiscussionSource: Pages topic summaries and fetches post detail
//   - RatePolicy: Paces harvest requests with fixed delays
//   - CorpusStore: Corpus snapshot persistence
//   - IndexStore: Persisted index entries with a completion marker
//   - VectorIndex: Vector storage/search over chunk embeddings
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Generates the grounded answer
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: Prompt template overrides. Without it, embedded defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
