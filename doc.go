/*
Package codemaster is a workflow orchestration engine for coding agents,
exposed over the Model Context Protocol as a single tool.

An agent drives a session through a fixed sequence: declare its tools,
define success criteria, create an implementation tasklist, map tools onto
each task, then work the tasks one at a time through planning and execution
phases. A state machine gates every action; out-of-order calls come back as
guidance instead of errors, so the agent is steered rather than stopped.

The root package is the library facade. Transports live under
pkg/adapters/mcp and internal/adapters/http; session persistence is
pluggable via pkg/ports (in-memory and Redis implementations provided).

Basic usage:

	eng := codemaster.New()
	resp, err := eng.ExecuteRaw(ctx, map[string]any{
	    "action":       "create_session",
	    "session_name": "refactor-auth",
	})
*/
package codemaster
