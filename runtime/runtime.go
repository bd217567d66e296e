// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime hosts the staking contract: it serializes calls, keeps account
// balances and commits every successful call to the state and log databases.
package runtime

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/pledge/builtin/params"
	"github.com/vechain/pledge/builtin/staker"
	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/builtin/staker/reverts"
	"github.com/vechain/pledge/builtin/staker/slashing"
	"github.com/vechain/pledge/kv"
	"github.com/vechain/pledge/log"
	"github.com/vechain/pledge/logdb"
	"github.com/vechain/pledge/oracle"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/state"
)

var logger = log.WithContext("pkg", "runtime")

var keyGenesis = pledge.BytesToBytes32([]byte("genesis-applied"))

// Options configures the hosted contract.
type Options struct {
	Contract pledge.Address
	Params   pledge.Address
	Admin    pledge.Address
	Signer   pledge.Address
	Policy   slashing.Policy
	// Feed prices the native token. When nil the price is read from the params contract.
	Feed oracle.Feed
	// Alloc funds accounts when the contract is set up for the first time.
	Alloc     map[pledge.Address]*big.Int
	CacheSize int
	// Clock returns the current unix time. Defaults to the wall clock.
	Clock func() uint64
}

// Runtime executes contract calls one at a time.
type Runtime struct {
	mu    sync.RWMutex
	db    kv.Store
	logDB *logdb.LogDB
	cache *state.Cache
	opts  Options
	hooks map[pledge.Address]Hook

	callNum uint32
}

// call is the environment of one top-level call.
type call struct {
	now    uint64
	state  *state.State
	bank   *bank
	staker *staker.Staker
	params *params.Params
}

// New opens the runtime over the stores, setting the contract up on first use.
func New(db kv.Store, logDB *logdb.LogDB, opts Options) (*Runtime, error) {
	if opts.Clock == nil {
		opts.Clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 4096
	}
	cache, err := state.NewCache(opts.CacheSize)
	if err != nil {
		return nil, err
	}
	callNum, err := logDB.NewestCallNumber()
	if err != nil {
		return nil, errors.Wrap(err, "read newest call")
	}

	r := &Runtime{
		db:      db,
		logDB:   logDB,
		cache:   cache,
		opts:    opts,
		hooks:   make(map[pledge.Address]Hook),
		callNum: callNum,
	}
	if err := r.exec("setup", func(c *call) error {
		if err := c.staker.Setup(); err != nil {
			return err
		}
		applied, err := c.params.Get(keyGenesis)
		if err != nil {
			return err
		}
		if applied.Sign() != 0 {
			return nil
		}
		for addr, amount := range opts.Alloc {
			if err := c.state.AddBalance(addr, amount); err != nil {
				return err
			}
		}
		return c.params.Set(keyGenesis, big.NewInt(1))
	}); err != nil {
		return nil, err
	}
	return r, nil
}

// SetHook installs recipient code run when addr receives value. A nil hook removes it.
func (r *Runtime) SetHook(addr pledge.Address, hook Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if hook == nil {
		delete(r.hooks, addr)
		return
	}
	r.hooks[addr] = hook
}

func (r *Runtime) newCall(now uint64) *call {
	st := state.New(r.db, r.cache)
	p := params.New(r.opts.Params, st)
	feed := r.opts.Feed
	if feed == nil {
		feed = oracle.NewParamsFeed(p)
	}
	b := &bank{state: st, hooks: r.hooks}
	s := staker.New(r.opts.Contract, st, staker.Config{
		Admin:  r.opts.Admin,
		Signer: r.opts.Signer,
		Policy: r.opts.Policy,
		Feed:   feed,
		Bank:   b,
	})
	b.staker = s
	return &call{now: now, state: st, bank: b, staker: s, params: p}
}

// exec runs fn as a top-level call and commits its effects if it succeeds.
func (r *Runtime) exec(op string, fn func(c *call) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
			if reverts.IsRevertErr(err) {
				result = "revert"
			}
		}
		metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": result})
		metricCallDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"op": op})
	}()

	c := r.newCall(r.opts.Clock())
	if err := fn(c); err != nil {
		return err
	}
	return r.commit(c)
}

func (r *Runtime) commit(c *call) error {
	events := make([]*logdb.Event, 0, len(c.staker.Events()))
	for _, ev := range c.staker.Events() {
		events = append(events, &logdb.Event{
			Kind:       ev.Kind.String(),
			User:       ev.User,
			LockID:     ev.LockID,
			Day:        ev.Bucket.Day,
			Period:     uint8(ev.Bucket.Period),
			PrevDay:    ev.PrevBucket.Day,
			PrevPeriod: uint8(ev.PrevBucket.Period),
			Amount:     ev.Amount,
			Penalty:    ev.Penalty,
			Refund:     ev.Refund,
			Reward:     ev.Reward,
			Severity:   ev.Severity,
			Root:       ev.Root,
		})
	}

	callNum := r.callNum + 1
	w := r.logDB.NewWriter()
	if err := w.Write(callNum, c.now, events, c.bank.transfers); err != nil {
		_ = w.Rollback()
		return errors.Wrap(err, "write logs")
	}
	stage := c.state.Stage()
	digest := stage.Hash()
	if err := stage.Commit(); err != nil {
		_ = w.Rollback()
		return errors.Wrap(err, "commit state")
	}
	if err := w.Commit(); err != nil {
		// state is already durable, the records of this call are lost
		logger.Error("failed to commit logs", "call", callNum, "err", err)
	}
	r.callNum = callNum
	logger.Debug("call committed", "call", callNum, "changes", stage.Len(), "events", len(events), "digest", digest)

	if fees, err := c.staker.FeeBalance(r.opts.Admin); err == nil {
		gwei := new(big.Int).Quo(fees, big.NewInt(1e9))
		metricFeeBalance().Set(gwei.Int64())
	}
	return nil
}

// view runs fn against the latest committed state. Changes are discarded.
func (r *Runtime) view(fn func(c *call) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return fn(r.newCall(r.opts.Clock()))
}

// Now returns the current time of the runtime clock.
func (r *Runtime) Now() uint64 {
	return r.opts.Clock()
}

func (r *Runtime) Options() Options {
	return r.opts
}

func (r *Runtime) LogDB() *logdb.LogDB {
	return r.logDB
}

//
// Contract calls
//

func (r *Runtime) CreateLock(caller pledge.Address, value *big.Int, commitmentTime, duration uint64) (id uint64, err error) {
	err = r.exec("create", func(c *call) error {
		id, err = c.staker.CreateLock(caller, value, c.now, commitmentTime, duration)
		return err
	})
	return
}

func (r *Runtime) EditLock(caller pledge.Address, value *big.Int, id, commitmentTime uint64) error {
	return r.exec("edit", func(c *call) error {
		return c.staker.EditLock(caller, value, c.now, id, commitmentTime)
	})
}

func (r *Runtime) DeleteLock(caller pledge.Address, id uint64) error {
	return r.exec("delete", func(c *call) error {
		return c.staker.DeleteLock(caller, id)
	})
}

func (r *Runtime) Claim(
	caller pledge.Address,
	id uint64,
	severity slashing.Severity,
	signature []byte,
	reward *big.Int,
	proof []pledge.Bytes32,
) (payout *big.Int, err error) {
	err = r.exec("claim", func(c *call) error {
		payout, err = c.staker.Claim(caller, id, severity, signature, reward, proof)
		return err
	})
	return
}

func (r *Runtime) Finalize(caller pledge.Address, b bucket.Bucket, root pledge.Bytes32) error {
	return r.exec("finalize", func(c *call) error {
		return c.staker.Finalize(caller, b, root)
	})
}

func (r *Runtime) Sweep(caller pledge.Address) (amount *big.Int, err error) {
	err = r.exec("sweep", func(c *call) error {
		amount, err = c.staker.Sweep(caller)
		return err
	})
	return
}

// SetParam sets a value of the params contract. Admin only.
func (r *Runtime) SetParam(caller pledge.Address, key pledge.Bytes32, value *big.Int) error {
	return r.exec("set-param", func(c *call) error {
		if caller != r.opts.Admin {
			return reverts.ErrUnauthorized
		}
		if value == nil || value.Sign() < 0 {
			return reverts.ErrZeroValue
		}
		if err := c.params.Set(key, value); err != nil {
			return err
		}
		logger.Info("param set", "key", key.AbbrevString(), "value", value)
		return nil
	})
}

// Faucet credits an account out of thin air. Development only.
func (r *Runtime) Faucet(addr pledge.Address, amount *big.Int) error {
	return r.exec("faucet", func(c *call) error {
		if amount == nil || amount.Sign() <= 0 {
			return reverts.ErrZeroValue
		}
		return c.state.AddBalance(addr, amount)
	})
}

//
// Views
//

// View runs fn with a staker bound to the latest committed state.
func (r *Runtime) View(fn func(s *staker.Staker) error) error {
	return r.view(func(c *call) error {
		return fn(c.staker)
	})
}

func (r *Runtime) Balance(addr pledge.Address) (balance *big.Int, err error) {
	err = r.view(func(c *call) error {
		balance, err = c.state.GetBalance(addr)
		return err
	})
	return
}

func (r *Runtime) Param(key pledge.Bytes32) (value *big.Int, err error) {
	err = r.view(func(c *call) error {
		value, err = c.params.Get(key)
		return err
	})
	return
}
