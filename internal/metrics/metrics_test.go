package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Simulation("eu_regulatory")
	m.Simulation("eu_regulatory")
	m.Forecast("simple_fallback")
	m.Fallback("primary_error")
	m.Regeneration("ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Simulations.WithLabelValues("eu_regulatory")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Forecasts.WithLabelValues("simple_fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues("primary_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Regenerations.WithLabelValues("ok")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["ech_simulations_total"])
	assert.True(t, names["ech_forecast_fallbacks_total"])
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
