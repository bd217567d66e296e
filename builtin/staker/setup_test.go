// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/builtin/staker/lock"
	"github.com/vechain/pledge/builtin/staker/reverts"
	"github.com/vechain/pledge/builtin/staker/slashing"
	"github.com/vechain/pledge/builtin/staker/verify"
	"github.com/vechain/pledge/cry"
	"github.com/vechain/pledge/lvldb"
	"github.com/vechain/pledge/oracle"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/state"
)

const signerKeyHex = "289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"

var (
	contractAddr = pledge.BytesToAddress([]byte("pledge"))
	admin        = pledge.BytesToAddress([]byte("admin"))
	alice        = pledge.BytesToAddress([]byte("alice"))
	bob          = pledge.BytesToAddress([]byte("bob"))

	// day 100, 00:00 UTC
	now = uint64(100 * pledge.SecondsPerDay)
	// day 100 AM and PM
	morning = now + 7*3600
	evening = now + 19*3600
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), pledge.Ether)
}

// testBank moves balances on the state and runs recipient hooks.
type testBank struct {
	state *state.State
	hooks map[pledge.Address]func(from pledge.Address, amount *big.Int) error
}

func (b *testBank) Transfer(from, to pledge.Address, amount *big.Int) error {
	ok, err := b.state.SubBalance(from, amount)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrInsufficientFunds
	}
	if err := b.state.AddBalance(to, amount); err != nil {
		return err
	}
	if hook := b.hooks[to]; hook != nil {
		return hook(from, amount)
	}
	return nil
}

type testEnv struct {
	t      *testing.T
	state  *state.State
	bank   *testBank
	staker *Staker
	key    *ecdsa.PrivateKey
	signer *verify.Verifier
}

// newTestEnv sets up a staker priced at 2 USD per token, with alice and bob
// funded with 100 tokens each and a reward reserve of 1000 tokens.
func newTestEnv(t *testing.T, policy slashing.Policy) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	key, err := cry.ParseKey(signerKeyHex)
	require.NoError(t, err)
	signer := cry.PubkeyToAddress(&key.PublicKey)

	st := state.New(db, nil)
	bank := &testBank{state: st, hooks: make(map[pledge.Address]func(pledge.Address, *big.Int) error)}
	stkr := New(contractAddr, st, Config{
		Admin:  admin,
		Signer: signer,
		Policy: policy,
		Feed:   oracle.NewFixed(2),
		Bank:   bank,
	})
	require.NoError(t, stkr.Setup())

	require.NoError(t, st.SetBalance(alice, ether(100)))
	require.NoError(t, st.SetBalance(bob, ether(100)))
	require.NoError(t, st.SetBalance(contractAddr, ether(1000)))

	return &testEnv{
		t:      t,
		state:  st,
		bank:   bank,
		staker: stkr,
		key:    key,
		signer: verify.New(policy.Name(), contractAddr, signer),
	}
}

func (e *testEnv) balance(addr pledge.Address) *big.Int {
	bal, err := e.state.GetBalance(addr)
	require.NoError(e.t, err)
	return bal
}

func (e *testEnv) create(user pledge.Address, value *big.Int, commitmentTime uint64) uint64 {
	id, err := e.staker.CreateLock(user, value, now, commitmentTime, 3600)
	require.NoError(e.t, err)
	return id
}

func (e *testEnv) lock(user pledge.Address, id uint64) *lock.Lock {
	l, err := e.staker.GetLock(user, id)
	require.NoError(e.t, err)
	return l
}

func (e *testEnv) sign(user pledge.Address, id uint64, severity slashing.Severity) []byte {
	l := e.lock(user, id)
	sig, err := e.signer.Sign(&verify.Outcome{
		Caller:         user,
		CommitmentTime: l.CommitmentTime,
		Duration:       l.Duration,
		Severity:       uint8(severity),
	}, e.key)
	require.NoError(e.t, err)
	return sig
}

// rewards builds a reward tree, finalizes the bucket with its root and
// returns the proof of every user.
func (e *testEnv) finalize(b bucket.Bucket, rewards map[pledge.Address]*big.Int) map[pledge.Address][]pledge.Bytes32 {
	leaves := make([]pledge.Bytes32, 0, len(rewards))
	for user, amount := range rewards {
		leaves = append(leaves, cry.MerkleLeaf(user, amount))
	}
	tree, err := cry.NewMerkleTree(leaves)
	require.NoError(e.t, err)
	require.NoError(e.t, e.staker.Finalize(admin, b, tree.Root()))

	proofs := make(map[pledge.Address][]pledge.Bytes32, len(rewards))
	for user, amount := range rewards {
		proof, err := tree.Proof(cry.MerkleLeaf(user, amount))
		require.NoError(e.t, err)
		proofs[user] = proof
	}
	return proofs
}

func (e *testEnv) pool(b bucket.Bucket) (*big.Int, uint64) {
	p, err := e.staker.GetPool(b)
	require.NoError(e.t, err)
	return p.TotalStaked, p.Participants
}

func (e *testEnv) fees() *big.Int {
	fees, err := e.staker.FeeBalance(admin)
	require.NoError(e.t, err)
	return fees
}

// totalBalance sums the balances of every account taking part in the tests.
func (e *testEnv) totalBalance() *big.Int {
	sum := new(big.Int)
	for _, addr := range []pledge.Address{contractAddr, admin, alice, bob} {
		sum.Add(sum, e.balance(addr))
	}
	return sum
}
