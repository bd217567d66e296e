// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/pledge/lvldb"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/state"
)

func TestParamsGetSet(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db, nil)
	p := New(pledge.BytesToAddress([]byte("par")), st)

	v, err := p.Get(pledge.KeyPriceUSD)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, p.Set(pledge.KeyPriceUSD, big.NewInt(250_000_000)))
	v, err = p.Get(pledge.KeyPriceUSD)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(250_000_000), v)

	require.NoError(t, p.Set(pledge.KeyPriceUSD, new(big.Int)))
	v, err = p.Get(pledge.KeyPriceUSD)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())
}
