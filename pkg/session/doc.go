/*
Package session implements session management and persistence orchestration.

It provides high-level abstractions for handling concurrent access to sessions
across multiple replicas, combining per-session in-process mutexes with
optional distributed locking and a pluggable storage adapter. Every handler in
the runtime performs a read-decide-write cycle against mutable session state,
so all such cycles for one session ID must pass through the same Manager lock.
*/
package session
