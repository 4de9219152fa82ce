// Package graph renders the workflow table as Mermaid diagrams for docs and
// the CLI graph command.
package graph

import (
	"fmt"
	"strings"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

// GraphOverlay contains dynamic session data to visualize on the graph.
type GraphOverlay struct {
	CurrentState domain.State
	ResumeState  domain.State
}

// GenerateMermaid produces a Mermaid flowchart from the workflow transitions.
// Styling conventions:
//   - initialized: ((Circle))
//   - terminal states: [[Subroutine]]
//   - collaboration pause: [/Parallelogram/] (waiting on input)
//   - guarded edges carry the event label in quotes with an asterisk
//   - resume edges are dotted
//
// Pause and end edges exist from nearly every state; they are collapsed to a
// single annotation per target to keep the diagram readable.
func GenerateMermaid(transitions []domain.Transition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	seen := make(map[domain.State]bool)
	declare := func(s domain.State) {
		if seen[s] {
			return
		}
		seen[s] = true
		opener, closer := "[", "]"
		switch {
		case s == domain.StateInitialized:
			opener, closer = "((", "))"
		case s.Terminal():
			opener, closer = "[[", "]]"
		case s == domain.StateCollaborationPaused:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(string(s)), opener, s, closer))
	}

	pauseSources := 0
	endSources := 0
	for _, t := range transitions {
		declare(t.From)

		// Collapse the near-universal edges; they are summarized below.
		if t.Event == domain.EventRequestCollaboration && t.To == domain.StateCollaborationPaused {
			pauseSources++
			continue
		}
		if t.Event == domain.EventEndSession && t.To == domain.StateSessionEnded {
			endSources++
			continue
		}

		to := t.To
		arrow := "-->"
		if t.ToResume {
			to = domain.StateTaskExecuting
			arrow = "-.->"
		}
		declare(to)

		label := string(t.Event)
		if t.Guard != nil {
			label += "*"
		}
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" %s %s\n",
			sanitizeMermaidID(string(t.From)), label, arrow, sanitizeMermaidID(string(to))))
	}

	if pauseSources > 0 {
		declare(domain.StateCollaborationPaused)
		sb.WriteString(fmt.Sprintf("    any[\"any of %d states\"] -. \"request_collaboration\" .-> %s\n",
			pauseSources, sanitizeMermaidID(string(domain.StateCollaborationPaused))))
	}
	if endSources > 0 {
		declare(domain.StateSessionEnded)
		sb.WriteString(fmt.Sprintf("    any -. \"end_session\" .-> %s\n",
			sanitizeMermaidID(string(domain.StateSessionEnded))))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef resume fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(string(overlay.CurrentState))))
		}
		if overlay.ResumeState != "" {
			sb.WriteString(fmt.Sprintf("    class %s resume;\n", sanitizeMermaidID(string(overlay.ResumeState))))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
