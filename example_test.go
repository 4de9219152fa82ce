package codemaster_test

import (
	"context"
	"fmt"
	"log"

	codemaster "github.com/codemaster-ai/codemaster"
	"github.com/codemaster-ai/codemaster/pkg/domain"
)

// ExampleNew walks the setup phase of the workflow: create a session, declare
// what the agent can do, then define what success looks like. Each accepted
// command moves the session one state forward.
func ExampleNew() {
	engine := codemaster.New()
	ctx := context.Background()

	resp, err := engine.Execute(ctx, &domain.Command{
		Action:      domain.ActionCreateSession,
		SessionName: "docs-example",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: %s\n", resp.Status, resp.CurrentState)

	resp, err = engine.Execute(ctx, &domain.Command{
		Action: domain.ActionDeclareCapabilities,
		AvailableTools: []domain.DeclaredTool{
			{Name: "shell", Description: "runs commands"},
			{Name: "editor", Description: "edits files"},
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: %s\n", resp.Status, resp.CurrentState)

	resp, err = engine.Execute(ctx, &domain.Command{
		Action:          domain.ActionDefineSuccess,
		SuccessMetrics:  []string{"all handlers covered by tests"},
		CodingStandards: []string{"errors are wrapped with context"},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: %s\n", resp.Status, resp.CurrentState)

	// Output:
	// success: initialized
	// success: capabilities_declared
	// success: success_defined
}
