// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - EmbeddingService: Turns text into unit-length vectors (Ollama, OpenAI, hashing).
//   - VectorStore: Stores documents and answers similarity queries (SQLite, memory, Qdrant).
//   - RecordSource: Streams raw job records into ingestion (JSON Lines).
//   - ConfigStore: Application configuration (TOML).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
