package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstock "github.com/jhoicas/warehouse-qty-api/internal/application/stock"
)

func TestPrometheusRecorder_Contadores(t *testing.T) {
	r := NewPrometheusRecorder()

	r.LedgerQuery(appstock.ScopeVariant)
	r.LedgerQuery(appstock.ScopeVariant)
	r.LedgerQuery(appstock.ScopeFamily)
	r.Computation(appstock.ScopeVariant, nil, 20*time.Millisecond)
	r.Computation(appstock.ScopeVariant, errors.New("x"), time.Millisecond)
	r.Warehouses(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ledger.WithLabelValues(appstock.ScopeVariant)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ledger.WithLabelValues(appstock.ScopeFamily)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.computations.WithLabelValues(appstock.ScopeVariant, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.computations.WithLabelValues(appstock.ScopeVariant, "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.warehouses))
}

func TestPrometheusRecorder_Histograma(t *testing.T) {
	r := NewPrometheusRecorder()
	r.Computation(appstock.ScopeFamily, nil, 50*time.Millisecond)

	families, err := r.Registry().Gather()
	require.NoError(t, err)

	var hist *dto.Histogram
	for _, mf := range families {
		if mf.GetName() == "warehouse_qty_computation_seconds" {
			require.Len(t, mf.GetMetric(), 1)
			hist = mf.GetMetric()[0].GetHistogram()
		}
	}
	require.NotNil(t, hist)
	assert.Equal(t, uint64(1), hist.GetSampleCount())
	assert.InDelta(t, 0.05, hist.GetSampleSum(), 1e-9)
}
