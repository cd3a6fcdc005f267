// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - DocumentLoader: Fetches raw markup for a URI, with a local cache
//   - Preprocessor: Extracts clean text from one document shape
//   - PreprocessorRegistry: Selects a Preprocessor by document URI
//   - TextSplitter: Partitions cleaned text into overlapping chunks
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - VectorStore: Collection reset, bulk insert, k-NN retrieval, count
//   - LLMService: Chat completion used for answer generation
//   - ConfigStore: Application configuration file
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, preprocessor, or splitter package
package driven
