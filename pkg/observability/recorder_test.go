package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/codemaster-ai/codemaster/pkg/domain"
)

func TestRecorder_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveCommand(domain.ActionCreateSession, domain.StatusSuccess)
	r.ObserveCommand(domain.ActionCreateSession, domain.StatusSuccess)
	r.ObserveCommand(domain.ActionMarkComplete, domain.StatusGuidance)
	r.ObserveTransition(domain.StateInitialized, domain.StateCapabilitiesDeclared, domain.EventDeclareCapabilities)
	r.ObserveGateRejection(domain.StateInitialized, domain.ActionCreateTasklist)

	assert.Equal(t, float64(2), testutil.ToFloat64(
		r.commands.WithLabelValues(domain.ActionCreateSession, string(domain.StatusSuccess))))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.commands.WithLabelValues(domain.ActionMarkComplete, string(domain.StatusGuidance))))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.transitions.WithLabelValues("initialized", "capabilities_declared", "declare_capabilities")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		r.rejections.WithLabelValues("initialized", "create_tasklist")))
}
