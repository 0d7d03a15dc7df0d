package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNew(reg)

	m.ObserveLookup("ok", 3*time.Second)
	m.ObserveLookup("ok", time.Second)
	m.ObserveLookup("login_failed", time.Second)
	m.ObserveStep("goto", true)
	m.ObserveStep("click", false)
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.lookups.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("login_failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.steps.WithLabelValues("click", "failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.steps.WithLabelValues("click", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsActive))
	assert.Equal(t, 2, testutil.CollectAndCount(m.lookupDuration))
}

func TestMustNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNew(reg)
	assert.Panics(t, func() { MustNew(reg) })
}
