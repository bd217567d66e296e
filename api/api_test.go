// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/pledge/api/admin"
	"github.com/vechain/pledge/api/types"
	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/builtin/staker/slashing"
	"github.com/vechain/pledge/builtin/staker/verify"
	"github.com/vechain/pledge/cry"
	"github.com/vechain/pledge/logdb"
	"github.com/vechain/pledge/lvldb"
	"github.com/vechain/pledge/oracle"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/runtime"
)

const signerKeyHex = "289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"

var (
	contractAddr = pledge.BytesToAddress([]byte("pledge"))
	adminAddr    = pledge.BytesToAddress([]byte("admin"))
	alice        = pledge.BytesToAddress([]byte("alice"))

	now     = uint64(100 * pledge.SecondsPerDay)
	morning = now + 7*3600
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), pledge.Ether)
}

type testEnv struct {
	rt       *runtime.Runtime
	api      *httptest.Server
	admin    *httptest.Server
	verifier *verify.Verifier
}

func newTestEnv(t *testing.T, devMode bool) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	key, err := cry.ParseKey(signerKeyHex)
	require.NoError(t, err)
	signer := cry.PubkeyToAddress(&key.PublicKey)

	rt, err := runtime.New(db, logDB, runtime.Options{
		Contract: contractAddr,
		Params:   pledge.BytesToAddress([]byte("params")),
		Admin:    adminAddr,
		Signer:   signer,
		Policy:   slashing.WakeUp{},
		Feed:     oracle.NewFixed(2),
		Alloc: map[pledge.Address]*big.Int{
			alice:        ether(100),
			contractAddr: ether(1000),
		},
		Clock: func() uint64 { return now },
	})
	require.NoError(t, err)

	var logLevel slog.LevelVar
	env := &testEnv{
		rt: rt,
		api: httptest.NewServer(NewHTTPHandler(rt, Options{
			AllowedOrigins: "*",
			LogsLimit:      100,
			DevMode:        devMode,
			EnableMetrics:  true,
		})),
		admin:    httptest.NewServer(admin.NewHTTPHandler(&logLevel, rt, &atomic.Bool{})),
		verifier: verify.New(slashing.WakeUpName, contractAddr, signer),
	}
	t.Cleanup(env.api.Close)
	t.Cleanup(env.admin.Close)
	return env
}

func do(t *testing.T, method, url string, body any) ([]byte, int) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}

func decode[T any](t *testing.T, data []byte) T {
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestLockLifecycle(t *testing.T) {
	env := newTestEnv(t, true)
	api := env.api.URL

	// create
	data, code := do(t, http.MethodPost, api+"/locks", map[string]any{
		"caller":         alice,
		"value":          hexutil.EncodeBig(ether(10)),
		"commitmentTime": morning,
	})
	require.Equal(t, http.StatusOK, code, string(data))
	assert.Equal(t, float64(1), decode[map[string]any](t, data)["id"])

	data, code = do(t, http.MethodGet, fmt.Sprintf("%s/locks/%v/1", api, alice), nil)
	require.Equal(t, http.StatusOK, code, string(data))
	lk := decode[types.Lock](t, data)
	assert.Equal(t, "Active", lk.Status)
	assert.Equal(t, "PM", lk.Bucket.Period)
	assert.Equal(t, ether(10).String(), types.BigInt(lk.Stake).String())

	// the bucket is taken
	_, code = do(t, http.MethodPost, api+"/locks", map[string]any{
		"caller":         alice,
		"value":          hexutil.EncodeBig(ether(10)),
		"commitmentTime": morning + 60,
	})
	assert.Equal(t, http.StatusConflict, code)

	// only the owner edits
	_, code = do(t, http.MethodPut, api+"/locks/1", map[string]any{
		"caller":         adminAddr,
		"value":          hexutil.EncodeBig(ether(10)),
		"commitmentTime": morning,
	})
	assert.Equal(t, http.StatusForbidden, code)

	b := bucket.Of(morning)
	data, code = do(t, http.MethodGet, fmt.Sprintf("%s/pools/%d/%v", api, b.Day, b.Period), nil)
	require.Equal(t, http.StatusOK, code, string(data))
	pool := decode[types.Pool](t, data)
	assert.Equal(t, uint64(1), pool.Participants)
	assert.Equal(t, ether(10).String(), types.BigInt(pool.TotalStaked).String())

	data, code = do(t, http.MethodGet, fmt.Sprintf("%s/pools/at/%d", api, morning), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, pool, decode[types.Pool](t, data))

	data, code = do(t, http.MethodGet, fmt.Sprintf("%s/pools/%d/pm/occupancy/%v", api, b.Day, alice), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, decode[map[string]any](t, data)["occupied"])

	// finalize through the admin api
	tree, err := cry.NewMerkleTree([]pledge.Bytes32{
		cry.MerkleLeaf(alice, ether(3)),
		cry.MerkleLeaf(adminAddr, ether(1)),
	})
	require.NoError(t, err)
	root := tree.Root()
	_, code = do(t, http.MethodPost, fmt.Sprintf("%s/admin/contract/pools/%d/PM/finalize", env.admin.URL, b.Day), map[string]any{"root": root})
	require.Equal(t, http.StatusOK, code)
	_, code = do(t, http.MethodPost, fmt.Sprintf("%s/admin/contract/pools/%d/PM/finalize", env.admin.URL, b.Day), map[string]any{"root": root})
	assert.Equal(t, http.StatusConflict, code)

	// claim
	key, err := cry.ParseKey(signerKeyHex)
	require.NoError(t, err)
	sig, err := env.verifier.Sign(&verify.Outcome{Caller: alice, CommitmentTime: morning}, key)
	require.NoError(t, err)
	proof, err := tree.Proof(cry.MerkleLeaf(alice, ether(3)))
	require.NoError(t, err)

	claim := map[string]any{
		"caller":    alice,
		"severity":  0,
		"signature": hexutil.Encode(sig),
		"reward":    hexutil.EncodeBig(ether(3)),
		"proof":     proof,
	}
	data, code = do(t, http.MethodPost, api+"/locks/1/claim", claim)
	require.Equal(t, http.StatusOK, code, string(data))
	assert.Equal(t, hexutil.EncodeBig(ether(13)), decode[map[string]string](t, data)["payout"])

	_, code = do(t, http.MethodPost, api+"/locks/1/claim", claim)
	assert.Equal(t, http.StatusConflict, code)

	data, code = do(t, http.MethodGet, fmt.Sprintf("%s/accounts/%v", api, alice), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, ether(103).String(), types.BigInt(decode[types.Account](t, data).Balance).String())

	// event log
	data, code = do(t, http.MethodPost, api+"/logs/event", map[string]any{
		"criteriaSet": []map[string]any{{"user": alice}},
	})
	require.Equal(t, http.StatusOK, code, string(data))
	evs := decode[[]*types.FilteredEvent](t, data)
	require.Len(t, evs, 2)
	assert.Equal(t, "LockCreated", evs[0].Kind)
	assert.Equal(t, "ClaimSettled", evs[1].Kind)
	assert.Equal(t, ether(3).String(), types.BigInt(evs[1].Reward).String())

	data, code = do(t, http.MethodPost, api+"/logs/transfer", map[string]any{
		"criteriaSet": []map[string]any{{"recipient": alice}},
		"order":       "desc",
	})
	require.Equal(t, http.StatusOK, code, string(data))
	trs := decode[[]*types.FilteredTransfer](t, data)
	require.Len(t, trs, 1)
	assert.Equal(t, contractAddr, trs[0].Sender)
}

func TestDeleteAndSweep(t *testing.T) {
	env := newTestEnv(t, true)
	api := env.api.URL

	_, code := do(t, http.MethodPost, api+"/locks", map[string]any{
		"caller":         alice,
		"value":          hexutil.EncodeBig(ether(10)),
		"commitmentTime": morning,
	})
	require.Equal(t, http.StatusOK, code)
	_, code = do(t, http.MethodDelete, api+"/locks/1", map[string]any{"caller": alice})
	require.Equal(t, http.StatusOK, code)
	_, code = do(t, http.MethodDelete, api+"/locks/1", map[string]any{"caller": alice})
	assert.Equal(t, http.StatusConflict, code)

	data, code := do(t, http.MethodGet, env.admin.URL+"/admin/contract/fees", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, hexutil.EncodeBig(ether(5)), decode[map[string]string](t, data)["balance"])

	data, code = do(t, http.MethodPost, env.admin.URL+"/admin/contract/fees/sweep", nil)
	require.Equal(t, http.StatusOK, code, string(data))
	assert.Equal(t, hexutil.EncodeBig(ether(5)), decode[map[string]string](t, data)["amount"])

	data, code = do(t, http.MethodGet, api+"/accounts/contract", nil)
	require.Equal(t, http.StatusOK, code)
	c := decode[types.Contract](t, data)
	assert.Equal(t, adminAddr, c.Admin)
	assert.Equal(t, slashing.WakeUpName, c.Policy)
	assert.Equal(t, uint64(2), c.NextLockID)
	assert.Equal(t, 0, types.BigInt(c.TotalLocked).Sign())
	assert.Equal(t, now, c.Now)
}

func TestParamsAndFaucet(t *testing.T) {
	env := newTestEnv(t, true)

	_, code := do(t, http.MethodPost, env.admin.URL+"/admin/contract/params", map[string]any{"key": "price-usd", "value": "300000000"})
	require.Equal(t, http.StatusOK, code)
	data, code := do(t, http.MethodGet, env.admin.URL+"/admin/contract/params/price-usd", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, hexutil.EncodeBig(big.NewInt(3e8)), decode[map[string]string](t, data)["value"])

	bob := pledge.BytesToAddress([]byte("bob"))
	data, code = do(t, http.MethodPost, fmt.Sprintf("%s/accounts/%v/faucet", env.api.URL, bob), map[string]any{"amount": "1000"})
	require.Equal(t, http.StatusOK, code, string(data))
	assert.Equal(t, big.NewInt(1000).String(), types.BigInt(decode[types.Account](t, data).Balance).String())

	_, code = do(t, http.MethodPost, fmt.Sprintf("%s/accounts/%v/faucet", env.api.URL, bob), map[string]any{"amount": "0"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestReadOnlyMode(t *testing.T) {
	env := newTestEnv(t, false)

	_, code := do(t, http.MethodPost, env.api.URL+"/locks", map[string]any{
		"caller":         alice,
		"value":          hexutil.EncodeBig(ether(10)),
		"commitmentTime": morning,
	})
	assert.Contains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, code)

	_, code = do(t, http.MethodGet, fmt.Sprintf("%s/locks/%v/1", env.api.URL, alice), nil)
	assert.Equal(t, http.StatusNotFound, code)

	data, code := do(t, http.MethodGet, env.api.URL+"/locks/next-id", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), decode[map[string]any](t, data)["nextLockID"])

	_, code = do(t, http.MethodGet, env.api.URL+"/accounts/nope", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = do(t, http.MethodPost, env.api.URL+"/logs/event", map[string]any{"options": map[string]any{"limit": 1000}})
	assert.Equal(t, http.StatusForbidden, code)
	_, code = do(t, http.MethodPost, env.api.URL+"/logs/event", map[string]any{"criteriaSet": []map[string]any{{"kind": "Nope"}}})
	assert.Equal(t, http.StatusBadRequest, code)
}
