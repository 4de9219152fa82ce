package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/codemaster-ai/codemaster/pkg/domain"
	"github.com/codemaster-ai/codemaster/pkg/ports"
)

type redactionMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks content matching the
// patterns before a session is persisted. Agents paste credentials into task
// descriptions and collaboration notes more often than anyone would like;
// this keeps such fragments out of the store. Masking happens on write only,
// so the in-memory session the engine works with stays intact.
func NewRedactionMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) Create(ctx context.Context, name string) (*domain.Session, error) {
	return m.next.Create(ctx, m.mask(name))
}

func (m *redactionMiddleware) Save(ctx context.Context, sess *domain.Session) error {
	// Deep clone to avoid side effects on the session the engine holds.
	cloned, err := cloneSession(sess)
	if err != nil {
		return err
	}

	cloned.Name = m.mask(cloned.Name)
	cloned.Data.DenoisedPlan = m.mask(cloned.Data.DenoisedPlan)
	m.maskSlice(cloned.Data.SuccessMetrics)
	m.maskSlice(cloned.Data.CodingStandards)
	for i := range cloned.Data.DeclaredTools {
		cloned.Data.DeclaredTools[i].Description = m.mask(cloned.Data.DeclaredTools[i].Description)
		cloned.Data.DeclaredTools[i].RelevanceAssessment = m.mask(cloned.Data.DeclaredTools[i].RelevanceAssessment)
	}
	for _, task := range cloned.Tasks {
		task.Description = m.mask(task.Description)
		m.maskPhase(task.PlanningPhase)
		m.maskPhase(task.ExecutionPhase)
		if task.InitialToolThoughts != nil {
			task.InitialToolThoughts.Reasoning = m.mask(task.InitialToolThoughts.Reasoning)
			m.maskSlice(task.InitialToolThoughts.ThoughtProcess)
		}
	}

	return m.next.Save(ctx, cloned)
}

func (m *redactionMiddleware) Current(ctx context.Context) (*domain.Session, error) {
	return m.next.Current(ctx)
}

func (m *redactionMiddleware) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.next.Get(ctx, sessionID)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactionMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

// Helpers

func (m *redactionMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, "***")
	}
	return s
}

func (m *redactionMiddleware) maskSlice(ss []string) {
	for i := range ss {
		ss[i] = m.mask(ss[i])
	}
}

func (m *redactionMiddleware) maskPhase(phase *domain.TaskPhase) {
	if phase == nil {
		return
	}
	phase.Description = m.mask(phase.Description)
	for i := range phase.AssignedBuiltinTools {
		phase.AssignedBuiltinTools[i].UsagePurpose = m.mask(phase.AssignedBuiltinTools[i].UsagePurpose)
		m.maskSlice(phase.AssignedBuiltinTools[i].SpecificActions)
	}
	for i := range phase.AssignedMCPTools {
		phase.AssignedMCPTools[i].UsagePurpose = m.mask(phase.AssignedMCPTools[i].UsagePurpose)
		m.maskSlice(phase.AssignedMCPTools[i].SpecificActions)
	}
}

func cloneSession(sess *domain.Session) (*domain.Session, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to clone session: %w", err)
	}
	var out domain.Session
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to clone session: %w", err)
	}
	return &out, nil
}
