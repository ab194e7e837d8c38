// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - EmbeddingService: Turns text into fixed-width vectors (local, Hugging Face, OpenAI, Ollama)
//   - VectorStore: Loads and saves the whole chunk/embedding snapshot (JSON file, SQLite, memory)
//   - Extractor: Recovers plain text from a file on disk (text, PDF, Word)
//   - Chunker: Splits normalised text into overlapping segments
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
