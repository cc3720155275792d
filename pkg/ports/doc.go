/*
Package ports defines the driven ports (interfaces) for the Stanza engine.

These interfaces decouple the traversal core from external implementations, allowing
the engine to read chains from various sources and to persist sessions anywhere.

# Key Interfaces

  - ChainLoader: Responsible for fetching raw chain documents (e.g., from disk, memory or HTTP).
  - StateStore: Responsible for persisting and loading session State.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - Engine: The traversal operations driving adapters (HTTP, MCP, CLI) call.
*/
package ports
