package imgtag

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Factory(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := newTestFactory(t, WithMetrics(reg))
	ctx := context.Background()
	m := f.diag.metrics
	require.NotNil(t, m)

	valid := f.Create(ctx, "picsum", nil, map[string]any{"width": 100})
	invalid := f.Create(ctx, "picsum", nil, nil)
	require.NotEmpty(t, valid.Output())
	require.Empty(t, invalid.Output())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.elementsCreated.WithLabelValues(TypePicsum)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues(TypePicsum, OutcomeRendered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues(TypePicsum, OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures.WithLabelValues(TypePicsum)))

	_ = valid.SetAttribute("id", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.configWarnings.WithLabelValues(StoreNameAttributes)))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, count)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.elementCreated(TypeBase)
		m.rendered(TypeBase, OutcomeRendered)
		m.validationFailed(TypeBase, 2)
		m.configWarning(StoreNameSettings)
		m.fetchLookup(CacheResultHit)
	})
}

func TestNewMetrics_Unregistered(t *testing.T) {
	m := NewMetrics(nil)
	m.elementCreated(TypeRemote)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.elementsCreated.WithLabelValues(TypeRemote)))
}
