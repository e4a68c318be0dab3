package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSubmitIncrementsCounters(t *testing.T) {
	m := New("test")

	m.ObserveSubmit(2, 1500)
	m.ObserveSubmit(0, 2500)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.OrdersProcessed))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.TradesExecuted))
	assert.Equal(t, 1, testutil.CollectAndCount(m.MatchingLatency), "one histogram metric regardless of observation count")
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	m := New("test")
	m.ObserveSubmit(1, 100)
	assert.NotNil(t, m.Handler())
}
