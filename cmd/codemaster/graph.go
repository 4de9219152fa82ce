package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	codemaster "github.com/codemaster-ai/codemaster"
	"github.com/codemaster-ai/codemaster/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [session-id]",
	Short: "Export the workflow graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the workflow state machine.
With a session ID, the session's current and resume states are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine := codemaster.New()

		var overlay *graph.GraphOverlay
		if len(args) == 1 {
			sessions := getSessions(cmd)
			sess, err := sessions.Get(cmd.Context(), args[0])
			if err != nil {
				fmt.Printf("Error loading session '%s': %v\n", args[0], err)
				os.Exit(1)
			}
			overlay = &graph.GraphOverlay{
				CurrentState: sess.WorkflowState,
				ResumeState:  sess.ResumeState,
			}
		}

		fmt.Print(graph.GenerateMermaid(engine.Workflow().Transitions(), overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
