package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveInvocation(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveInvocation(ResultPublished, 20*time.Millisecond)
	m.ObserveInvocation(ResultPublished, 10*time.Millisecond)
	m.ObserveInvocation(ResultFetchFailed, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.invocations.WithLabelValues(ResultPublished)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues(ResultFetchFailed)))
	require.Zero(t, testutil.ToFloat64(m.invocations.WithLabelValues(ResultMalformed)))
}

func TestMetrics_ObservePublished(t *testing.T) {
	t.Parallel()

	m := New()
	at := time.Unix(1669890600, 0)
	m.ObservePublished("USD", 18833.915, at)

	expected := `
# HELP btc_price Last published price of 1 BTC
# TYPE btc_price gauge
btc_price{currency="USD"} 18833.915
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "btc_price"))
	require.Equal(t, 1669890600.0, testutil.ToFloat64(m.lastSuccessTS))
}

func TestMetrics_ObserveSinkPush(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveSinkPush("loki", nil)
	m.ObserveSinkPush("loki", errors.New("502"))
	m.ObserveSinkPush("kafka", nil)

	expected := `
# HELP btc_publisher_sink_pushes_total Number of sink pushes by sink and status
# TYPE btc_publisher_sink_pushes_total counter
btc_publisher_sink_pushes_total{sink="kafka",status="ok"} 1
btc_publisher_sink_pushes_total{sink="loki",status="error"} 1
btc_publisher_sink_pushes_total{sink="loki",status="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "btc_publisher_sink_pushes_total"))
}
