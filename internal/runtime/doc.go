// Package runtime is the orchestration core: the workflow state machine,
// the command dispatcher, and one handler per action.
//
// The dispatcher is the only writer of workflow state. Every command follows
// the same sequence: resolve the workflow event (context-aware for
// execute_next and mark_complete), check the gate, run the handler, fire the
// transition, persist the session once. Rejections never error; they come
// back as guidance responses listing what the current state allows.
package runtime
