/*
Package domain contains the core domain models for the Codemaster workflow engine.

It defines the fundamental entities of the orchestration core: Sessions, Tasks
with their two-phase structure, the closed sets of workflow states and events,
and the Command/Response envelopes exchanged with transport adapters. This
package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Session: The unit of persistence; holds declared capabilities, the ordered
    task list, and the durable workflow state string.
  - Task: A two-phase (planning/execution) unit of work with tool assignments.
  - State / Event / Transition: The vocabulary of the workflow state machine.
  - Command / Response: The envelopes of the single remote-callable operation.
*/
package domain
