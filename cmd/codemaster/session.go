package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/codemaster-ai/codemaster/internal/presentation/tui"
	"github.com/codemaster-ai/codemaster/pkg/domain"
	"github.com/codemaster-ai/codemaster/pkg/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long: `List, inspect, and remove stored sessions. Only useful with a shared
backend (store.backend: redis); the in-memory store does not survive the
server process.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	Run: func(cmd *cobra.Command, args []string) {
		sessions := getSessions(cmd)
		ids, err := sessions.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(ids) == 0 {
			fmt.Println("No stored sessions found.")
			return
		}

		fmt.Println("Stored Sessions:")
		for _, id := range ids {
			fmt.Println("- " + id)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		sessions := getSessions(cmd)

		sess, err := sessions.Get(cmd.Context(), sessionID)
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
			os.Exit(1)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
			data, err := json.MarshalIndent(sess, "", "  ")
			if err != nil {
				fmt.Printf("Error marshaling session: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
			return
		}

		render := tui.NewRenderer()
		out, err := render(sessionMarkdown(sess))
		if err != nil {
			fmt.Printf("Error rendering session: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessions := getSessions(cmd)
		hasError := false

		for _, sessionID := range args {
			if err := sessions.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionInspectCmd.Flags().Bool("json", false, "Output raw JSON instead of rendered markdown")
}

func getSessions(cmd *cobra.Command) *session.Manager {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	engine, _, err := buildEngine(cfg, newLogger(cfg), false)
	if err != nil {
		fmt.Printf("Error initializing codemaster: %v\n", err)
		os.Exit(1)
	}
	return engine.Sessions()
}

// sessionMarkdown renders a session as markdown for terminal display.
func sessionMarkdown(sess *domain.Session) string {
	var b strings.Builder
	title := sess.ID
	if sess.Name != "" {
		title = fmt.Sprintf("%s (`%s`)", sess.Name, sess.ID)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- **State:** %s\n", sess.WorkflowState)
	if sess.ResumeState != "" {
		fmt.Fprintf(&b, "- **Resumes at:** %s\n", sess.ResumeState)
	}
	fmt.Fprintf(&b, "- **Tasks:** %d/%d complete\n", sess.CompletedCount(), len(sess.Tasks))
	fmt.Fprintf(&b, "- **Created:** %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- **Updated:** %s\n", sess.UpdatedAt.Format("2006-01-02 15:04:05 MST"))

	if len(sess.Capabilities.BuiltinTools) > 0 {
		b.WriteString("\n## Declared Tools\n\n")
		for _, tool := range sess.Capabilities.BuiltinTools {
			fmt.Fprintf(&b, "- **%s** %s\n", tool.Name, tool.Description)
		}
	}
	if len(sess.Tasks) > 0 {
		b.WriteString("\n## Tasks\n\n")
		for _, task := range sess.Tasks {
			mark := " "
			if task.Status == domain.TaskCompleted {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] `%s` %s (%s, %s phase)\n",
				mark, task.ID, task.Description, task.ComplexityLevel, task.CurrentPhase)
		}
	}
	if len(sess.Data.SuccessMetrics) > 0 {
		b.WriteString("\n## Success Metrics\n\n")
		for _, m := range sess.Data.SuccessMetrics {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}
	return b.String()
}
