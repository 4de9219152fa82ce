// Package schema turns loosely-typed wire payloads into domain commands.
//
// MCP clients are inconsistent about structured parameters: some send real
// JSON arrays and objects, others stringify them and send JSON text inside a
// string field. DecodeCommand accepts both, normalizing stringified fields
// before the typed decode so transports never have to care.
package schema
