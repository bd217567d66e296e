// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/pledge/api"
	"github.com/vechain/pledge/builtin/staker/slashing"
	"github.com/vechain/pledge/logdb"
	"github.com/vechain/pledge/lvldb"
	"github.com/vechain/pledge/metrics"
	"github.com/vechain/pledge/oracle"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/runtime"
)

func newRuntime(t *testing.T) *runtime.Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	rt, err := runtime.New(db, logDB, runtime.Options{
		Contract: pledge.BytesToAddress([]byte("pledge")),
		Params:   pledge.BytesToAddress([]byte("params")),
		Admin:    pledge.BytesToAddress([]byte("admin")),
		Signer:   pledge.BytesToAddress([]byte("signer")),
		Policy:   slashing.WakeUp{},
		Feed:     oracle.NewFixed(1),
	})
	require.NoError(t, err)
	return rt
}

func get(t *testing.T, url string) (int, []byte) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func TestServersStopWithContext(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	rt := newRuntime(t)

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	apiURL, err := StartAPIServer(ctx, g, "127.0.0.1:0", rt, api.Options{EnableMetrics: true})
	require.NoError(t, err)

	var level slog.LevelVar
	level.Set(slog.LevelWarn)
	adminURL, err := StartAdminServer(ctx, g, "127.0.0.1:0", &level, rt, &atomic.Bool{})
	require.NoError(t, err)

	metricsURL, err := StartMetricsServer(ctx, g, "127.0.0.1:0")
	require.NoError(t, err)

	code, body := get(t, apiURL+"accounts/contract")
	require.Equal(t, http.StatusOK, code)
	var contract map[string]any
	require.NoError(t, json.Unmarshal(body, &contract))
	assert.Equal(t, "wake-up", contract["policy"])

	code, body = get(t, adminURL+"/loglevel")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"currentLevel":"warn"}`, string(body))

	code, body = get(t, metricsURL)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "pledge_metrics_api_request_count")

	cancel()
	require.NoError(t, g.Wait())

	_, err = http.Get(apiURL) //#nosec G107
	assert.Error(t, err)
}

func TestListenError(t *testing.T) {
	g, ctx := errgroup.WithContext(context.Background())
	_, err := StartMetricsServer(ctx, g, "256.0.0.1:0")
	assert.Error(t, err)
}
