/*
Package ports defines the driven ports (interfaces) for the Codemaster engine.

These interfaces decouple the orchestration core from external implementations,
allowing the dispatcher to work with various session storage backends and lock
providers.

# Key Interfaces

  - SessionStore: Responsible for persisting sessions and tracking the current one.
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
