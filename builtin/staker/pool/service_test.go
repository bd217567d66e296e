// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/pledge/builtin/solidity"
	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/builtin/staker/reverts"
	"github.com/vechain/pledge/lvldb"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/state"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(pledge.Address{1}, state.New(db, nil)))
}

func TestPoolAggregates(t *testing.T) {
	svc := newService(t)
	b := bucket.Bucket{Day: 10, Period: bucket.AM}

	p, err := svc.Get(b)
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, 0, p.TotalStaked.Sign())

	require.NoError(t, svc.Join(b, big.NewInt(100)))
	require.NoError(t, svc.Join(b, big.NewInt(50)))
	p, err = svc.Get(b)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150), p.TotalStaked)
	assert.Equal(t, uint64(2), p.Participants)

	require.NoError(t, svc.Restake(b, big.NewInt(50), big.NewInt(80)))
	p, err = svc.Get(b)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(180), p.TotalStaked)
	assert.Equal(t, uint64(2), p.Participants)

	require.NoError(t, svc.Leave(b, big.NewInt(100)))
	p, err = svc.Get(b)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(80), p.TotalStaked)
	assert.Equal(t, uint64(1), p.Participants)

	assert.Error(t, svc.Leave(b, big.NewInt(81)))
	assert.Error(t, svc.Restake(b, big.NewInt(81), big.NewInt(1)))

	// other buckets are independent
	other, err := svc.Get(bucket.Bucket{Day: 10, Period: bucket.PM})
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}

func TestFinalize(t *testing.T) {
	svc := newService(t)
	b := bucket.Bucket{Day: 3, Period: bucket.PM}
	root := pledge.Keccak256([]byte("root"))

	assert.ErrorIs(t, svc.Finalize(b, pledge.Bytes32{}), reverts.ErrEmptyRoot)

	finalized, err := svc.IsFinalized(b)
	require.NoError(t, err)
	assert.False(t, finalized)

	require.NoError(t, svc.Finalize(b, root))
	finalized, err = svc.IsFinalized(b)
	require.NoError(t, err)
	assert.True(t, finalized)

	err = svc.Finalize(b, pledge.Keccak256([]byte("other")))
	assert.ErrorIs(t, err, reverts.ErrPoolFinalized)
	kind, _ := reverts.KindOf(err)
	assert.Equal(t, reverts.StateConflict, kind)

	p, err := svc.Get(b)
	require.NoError(t, err)
	assert.Equal(t, root, p.RewardRoot)
}
