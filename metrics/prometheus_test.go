// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newPrometheusMetrics(reg, reg)

	m.GetOrCreateCountMeter("calls").Add(2)
	m.GetOrCreateCountMeter("calls").Add(3)
	m.GetOrCreateCountVecMeter("ops", []string{"op", "result"}).AddWithLabel(1, map[string]string{"op": "create", "result": "ok"})
	m.GetOrCreateGaugeMeter("fee").Set(42)
	m.GetOrCreateGaugeVecMeter("pools", []string{"state"}).SetWithLabel(7, map[string]string{"state": "open"})
	m.GetOrCreateHistogramVecMeter("duration", []string{"op"}, BucketCall).ObserveWithLabels(120, map[string]string{"op": "claim"})

	families := gather(t, reg)

	assert.Equal(t, float64(5), families[namespace+"_calls"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), families[namespace+"_ops"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, float64(42), families[namespace+"_fee"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, float64(7), families[namespace+"_pools"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, uint64(1), families[namespace+"_duration"].GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestPromHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newPrometheusMetrics(reg, reg)
	m.GetOrCreateCountMeter("served").Add(1)

	srv := httptest.NewServer(m.GetOrCreateHandler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), namespace+"_served 1")
}

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()
	m.GetOrCreateCountMeter("a").Add(1)
	m.GetOrCreateGaugeVecMeter("b", nil).AddWithLabel(1, nil)

	srv := httptest.NewServer(m.GetOrCreateHandler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	f := LazyLoad(func() int {
		calls++
		return 7
	})
	assert.Equal(t, 7, f())
	assert.Equal(t, 7, f())
	assert.Equal(t, 1, calls)
}
