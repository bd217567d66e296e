// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/pledge/builtin/solidity"
	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/builtin/staker/lock"
	"github.com/vechain/pledge/builtin/staker/pool"
	"github.com/vechain/pledge/builtin/staker/reverts"
	"github.com/vechain/pledge/builtin/staker/slashing"
	"github.com/vechain/pledge/builtin/staker/vault"
	"github.com/vechain/pledge/builtin/staker/verify"
	"github.com/vechain/pledge/log"
	"github.com/vechain/pledge/oracle"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/state"
)

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// Bank moves native value between accounts. A transfer to a contract-like
// recipient may run recipient code, which can reject the transfer or call back.
type Bank interface {
	Transfer(from, to pledge.Address, amount *big.Int) error
}

// Config carries the construction parameters. They are immutable once persisted by Setup.
type Config struct {
	Admin  pledge.Address
	Signer pledge.Address
	Policy slashing.Policy
	Feed   oracle.Feed
	Bank   Bank
}

// Staker implements native methods of the commitment staking contract.
type Staker struct {
	addr  pledge.Address
	state *state.State
	cfg   Config

	storage      *storage
	verifier     *verify.Verifier
	poolService  *pool.Service
	lockService  *lock.Service
	vaultService *vault.Service

	events  []*Event
	entered bool
}

// New create a new instance.
func New(addr pledge.Address, state *state.State, cfg Config) *Staker {
	sctx := solidity.NewContext(addr, state)

	var policyName string
	if cfg.Policy != nil {
		policyName = cfg.Policy.Name()
	}
	return &Staker{
		addr:  addr,
		state: state,
		cfg:   cfg,

		storage:      newStorage(sctx),
		verifier:     verify.New(policyName, addr, cfg.Signer),
		poolService:  pool.New(sctx),
		lockService:  lock.New(sctx),
		vaultService: vault.New(sctx),
	}
}

// Setup persists the construction parameters on first use and checks them on reopen.
func (s *Staker) Setup() error {
	if s.cfg.Admin.IsZero() {
		return errors.New("admin required")
	}
	if s.cfg.Signer.IsZero() {
		return errors.New("trusted signer required")
	}
	if s.cfg.Policy == nil {
		return errors.New("policy required")
	}
	if s.cfg.Feed == nil || s.cfg.Bank == nil {
		return errors.New("price feed and bank required")
	}

	want := &params{
		admin:  s.cfg.Admin,
		signer: s.cfg.Signer,
		policy: nameToSlot(s.cfg.Policy.Name()),
	}
	stored, err := s.storage.load()
	if err != nil {
		return errors.Wrap(err, "load params")
	}
	if stored.isEmpty() {
		s.storage.save(want)
		logger.Info("contract initialized", "admin", want.admin, "signer", want.signer, "policy", s.cfg.Policy.Name())
		return nil
	}
	switch {
	case stored.admin != want.admin:
		return errors.Errorf("admin mismatch: stored %v, configured %v", stored.admin, want.admin)
	case stored.signer != want.signer:
		return errors.Errorf("trusted signer mismatch: stored %v, configured %v", stored.signer, want.signer)
	case stored.policy != want.policy:
		return errors.Errorf("policy mismatch: configured %v", s.cfg.Policy.Name())
	}
	return nil
}

// atomic runs fn as one indivisible call: state changes and events are
// discarded on error, and nested calls are refused.
func (s *Staker) atomic(fn func() error) error {
	if s.entered {
		return reverts.ErrReentrantCall
	}
	s.entered = true
	defer func() { s.entered = false }()

	chk := s.state.NewCheckpoint()
	nEvents := len(s.events)
	if err := fn(); err != nil {
		s.state.RevertTo(chk)
		s.events = s.events[:nEvents]
		if kind, ok := reverts.KindOf(err); ok {
			metricReverts().AddWithLabel(1, map[string]string{"kind": kind.String()})
		}
		return err
	}
	return nil
}

// transfer moves value through the bank. Reverts raised by the bank or by
// recipient code keep their kind, anything else is a transfer failure.
func (s *Staker) transfer(from, to pledge.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if err := s.cfg.Bank.Transfer(from, to, amount); err != nil {
		if reverts.IsRevertErr(err) {
			return err
		}
		return reverts.ErrTransferFailed.WithCause(err)
	}
	return nil
}

func (s *Staker) onlyAdmin(caller pledge.Address) error {
	if caller != s.cfg.Admin {
		return reverts.ErrUnauthorized
	}
	return nil
}

// checkStakeValue rejects a zero stake or one worth less than MinStakeUSD.
func (s *Staker) checkStakeValue(value *big.Int) error {
	if value == nil || value.Sign() <= 0 {
		return reverts.ErrZeroValue
	}
	usd, err := oracle.USDValue(s.cfg.Feed, value)
	if err != nil {
		return err
	}
	if usd.Cmp(pledge.MinStakeUSD) < 0 {
		return reverts.ErrStakeBelowMinimum
	}
	return nil
}

// ownedLock loads the lock and checks it can be acted upon by caller.
func (s *Staker) ownedLock(caller pledge.Address, id uint64) (*lock.Lock, error) {
	l, err := s.lockService.Get(id)
	if err != nil {
		return nil, err
	}
	if l.IsEmpty() {
		return nil, reverts.ErrLockNotFound
	}
	if l.Owner != caller {
		return nil, reverts.ErrNotLockOwner
	}
	if l.Status == lock.StatusDeleted {
		return nil, reverts.ErrLockDeleted
	}
	if l.Status != lock.StatusActive {
		return nil, reverts.ErrLockNotActive
	}
	return l, nil
}

// checkOpenPool fails if the pool of the bucket is finalized.
func (s *Staker) checkOpenPool(b bucket.Bucket) error {
	finalized, err := s.poolService.IsFinalized(b)
	if err != nil {
		return err
	}
	if finalized {
		return reverts.ErrPoolFinalized
	}
	return nil
}

// creditFee adds the penalty to the vault and records the new balance.
func (s *Staker) creditFee(penalty *big.Int) error {
	if err := s.vaultService.Credit(penalty); err != nil {
		return err
	}
	balance, err := s.vaultService.Fees()
	if err != nil {
		return err
	}
	s.emit(&Event{Kind: EventFeeUpdated, Amount: balance, Penalty: penalty})
	return nil
}

//
// Setters - state change
//

// CreateLock stakes value against a commitment and returns the new lock id.
func (s *Staker) CreateLock(caller pledge.Address, value *big.Int, now, commitmentTime, duration uint64) (id uint64, err error) {
	logger.Debug("creating lock", "caller", caller, "value", value, "commitment", commitmentTime, "duration", duration)

	err = s.atomic(func() error {
		if err := s.checkStakeValue(value); err != nil {
			return err
		}
		if commitmentTime <= now {
			return reverts.ErrCommitmentInPast
		}
		if s.cfg.Policy.RequiresDuration() && duration == 0 {
			return reverts.ErrDurationRequired
		}
		b := bucket.Of(commitmentTime)
		if err := s.checkOpenPool(b); err != nil {
			return err
		}
		occupied, err := s.lockService.IsOccupied(caller, b)
		if err != nil {
			return err
		}
		if occupied {
			return reverts.ErrBucketOccupied
		}

		if err := s.transfer(caller, s.addr, value); err != nil {
			return err
		}

		if id, err = s.lockService.AllocateID(); err != nil {
			return err
		}
		l := &lock.Lock{
			ID:             id,
			Owner:          caller,
			Bucket:         b,
			Stake:          new(big.Int).Set(value),
			CommitmentTime: commitmentTime,
			Duration:       duration,
			Status:         lock.StatusActive,
		}
		if err := s.lockService.Set(l); err != nil {
			return err
		}
		if err := s.lockService.SetOccupied(caller, b, true); err != nil {
			return err
		}
		if err := s.poolService.Join(b, value); err != nil {
			return err
		}
		if err := s.vaultService.Lock(value); err != nil {
			return err
		}
		s.emit(&Event{Kind: EventLockCreated, User: caller, LockID: id, Bucket: b, Amount: value})
		return nil
	})
	if err != nil {
		logger.Info("create lock failed", "caller", caller, "error", err)
		return 0, err
	}

	logger.Info("created lock", "caller", caller, "id", id)
	return id, nil
}

// EditLock replaces the stake and commitment time of an active lock. The old stake
// is refunded less the edit penalty and the new value is deposited in full.
func (s *Staker) EditLock(caller pledge.Address, value *big.Int, now, id, commitmentTime uint64) error {
	logger.Debug("editing lock", "caller", caller, "id", id, "value", value, "commitment", commitmentTime)

	err := s.atomic(func() error {
		if !s.cfg.Policy.AllowsEdit() {
			return reverts.ErrEditNotSupported
		}
		l, err := s.ownedLock(caller, id)
		if err != nil {
			return err
		}
		if err := s.checkOpenPool(l.Bucket); err != nil {
			return err
		}
		if err := s.checkStakeValue(value); err != nil {
			return err
		}
		if commitmentTime <= now {
			return reverts.ErrCommitmentInPast
		}
		to := bucket.Of(commitmentTime)
		moving := to != l.Bucket
		if moving {
			if err := s.checkOpenPool(to); err != nil {
				return err
			}
			occupied, err := s.lockService.IsOccupied(caller, to)
			if err != nil {
				return err
			}
			if occupied {
				return reverts.ErrBucketOccupied
			}
		}

		if err := s.transfer(caller, s.addr, value); err != nil {
			return err
		}

		oldStake := l.Stake
		penalty := slashing.Percent(oldStake, s.cfg.Policy.EditPenaltyPercent())
		refund := new(big.Int).Sub(oldStake, penalty)

		if moving {
			if err := s.poolService.Leave(l.Bucket, oldStake); err != nil {
				return err
			}
			if err := s.poolService.Join(to, value); err != nil {
				return err
			}
			if err := s.lockService.SetOccupied(caller, l.Bucket, false); err != nil {
				return err
			}
			if err := s.lockService.SetOccupied(caller, to, true); err != nil {
				return err
			}
		} else if err := s.poolService.Restake(to, oldStake, value); err != nil {
			return err
		}
		if err := s.vaultService.Unlock(oldStake); err != nil {
			return err
		}
		if err := s.vaultService.Lock(value); err != nil {
			return err
		}

		from := l.Bucket
		l.Bucket = to
		l.Stake = new(big.Int).Set(value)
		l.CommitmentTime = commitmentTime
		if err := s.lockService.Set(l); err != nil {
			return err
		}

		s.emit(&Event{
			Kind:       EventLockEdited,
			User:       caller,
			LockID:     id,
			PrevBucket: from,
			Bucket:     to,
			Amount:     value,
			Penalty:    penalty,
			Refund:     refund,
		})
		if err := s.creditFee(penalty); err != nil {
			return err
		}
		return s.transfer(s.addr, caller, refund)
	})
	if err != nil {
		logger.Info("edit lock failed", "caller", caller, "id", id, "error", err)
		return err
	}

	logger.Info("edited lock", "caller", caller, "id", id)
	return nil
}

// DeleteLock withdraws an active lock before finalization, forfeiting the delete penalty.
func (s *Staker) DeleteLock(caller pledge.Address, id uint64) error {
	logger.Debug("deleting lock", "caller", caller, "id", id)

	err := s.atomic(func() error {
		l, err := s.ownedLock(caller, id)
		if err != nil {
			return err
		}
		if err := s.checkOpenPool(l.Bucket); err != nil {
			return err
		}

		stake := l.Stake
		penalty := slashing.Percent(stake, s.cfg.Policy.DeletePenaltyPercent())
		refund := new(big.Int).Sub(stake, penalty)

		if err := s.poolService.Leave(l.Bucket, stake); err != nil {
			return err
		}
		if err := s.lockService.SetOccupied(caller, l.Bucket, false); err != nil {
			return err
		}
		if err := s.vaultService.Unlock(stake); err != nil {
			return err
		}
		l.Status = lock.StatusDeleted
		l.Stake = new(big.Int)
		if err := s.lockService.Set(l); err != nil {
			return err
		}

		s.emit(&Event{
			Kind:    EventLockDeleted,
			User:    caller,
			LockID:  id,
			Bucket:  l.Bucket,
			Penalty: penalty,
			Refund:  refund,
		})
		if err := s.creditFee(penalty); err != nil {
			return err
		}
		return s.transfer(s.addr, caller, refund)
	})
	if err != nil {
		logger.Info("delete lock failed", "caller", caller, "id", id, "error", err)
		return err
	}

	logger.Info("deleted lock", "caller", caller, "id", id)
	return nil
}

// Claim settles a lock of a finalized pool. It returns the total amount paid out.
func (s *Staker) Claim(
	caller pledge.Address,
	id uint64,
	severity slashing.Severity,
	signature []byte,
	reward *big.Int,
	proof []pledge.Bytes32,
) (payout *big.Int, err error) {
	logger.Debug("claiming", "caller", caller, "id", id, "severity", severity, "reward", reward)

	if reward == nil {
		reward = new(big.Int)
	}
	err = s.atomic(func() error {
		l, err := s.lockService.Get(id)
		if err != nil {
			return err
		}
		if l.IsEmpty() {
			return reverts.ErrLockNotFound
		}
		if l.Owner != caller {
			return reverts.ErrNotLockOwner
		}
		if l.Status == lock.StatusDeleted {
			return reverts.ErrLockDeleted
		}
		// a completed lock is always a claimed one
		claimed, err := s.lockService.IsClaimed(caller, id)
		if err != nil {
			return err
		}
		if claimed {
			return reverts.ErrAlreadyClaimed
		}
		if l.Status != lock.StatusActive {
			return reverts.ErrLockNotActive
		}
		p, err := s.poolService.Get(l.Bucket)
		if err != nil {
			return err
		}
		if !p.Finalized {
			return reverts.ErrPoolNotFinalized
		}

		outcome := &verify.Outcome{
			Caller:         caller,
			CommitmentTime: l.CommitmentTime,
			Duration:       l.Duration,
			Severity:       uint8(severity),
		}
		if !s.verifier.VerifyOutcome(outcome, signature) {
			return reverts.ErrInvalidSignature
		}
		if severity == slashing.FullSuccess {
			// rewards are uint256 words in the tree
			if reward.Sign() < 0 || reward.BitLen() > 256 {
				return reverts.ErrInvalidProof
			}
			if !verify.VerifyReward(p.RewardRoot, caller, reward, proof) {
				return reverts.ErrInvalidProof
			}
		} else if reward.Sign() != 0 {
			return reverts.ErrUnearnedReward
		}

		stakeReturn := slashing.StakeReturn(s.cfg.Policy, l.Stake, severity)
		payout = new(big.Int).Add(stakeReturn, reward)

		if err := s.lockService.MarkClaimed(caller, id); err != nil {
			return err
		}
		if err := s.lockService.SetOccupied(caller, l.Bucket, false); err != nil {
			return err
		}
		if err := s.vaultService.Unlock(l.Stake); err != nil {
			return err
		}
		l.Status = lock.StatusCompleted
		if err := s.lockService.Set(l); err != nil {
			return err
		}

		s.emit(&Event{
			Kind:     EventClaimSettled,
			User:     caller,
			LockID:   id,
			Bucket:   l.Bucket,
			Amount:   stakeReturn,
			Reward:   reward,
			Severity: uint8(severity),
		})
		return s.transfer(s.addr, caller, payout)
	})
	if err != nil {
		logger.Info("claim failed", "caller", caller, "id", id, "error", err)
		return nil, err
	}

	metricClaims().AddWithLabel(1, map[string]string{"outcome": claimOutcome(s.cfg.Policy, severity)})
	logger.Info("claimed", "caller", caller, "id", id, "payout", payout)
	return payout, nil
}

func claimOutcome(p slashing.Policy, severity slashing.Severity) string {
	switch p.ReturnPercent(severity) {
	case 100:
		return "full"
	case 0:
		return "forfeit"
	}
	return "partial"
}

// Finalize closes the pool of the bucket and attaches its reward root.
func (s *Staker) Finalize(caller pledge.Address, b bucket.Bucket, root pledge.Bytes32) error {
	logger.Debug("finalizing pool", "caller", caller, "bucket", b, "root", root)

	err := s.atomic(func() error {
		if err := s.onlyAdmin(caller); err != nil {
			return err
		}
		if !b.Valid() {
			return reverts.ErrInvalidBucket
		}
		if err := s.poolService.Finalize(b, root); err != nil {
			return err
		}
		s.emit(&Event{Kind: EventPoolFinalized, Bucket: b, Root: root})
		return nil
	})
	if err != nil {
		logger.Info("finalize failed", "bucket", b, "error", err)
		return err
	}

	logger.Info("finalized pool", "bucket", b)
	return nil
}

// Sweep transfers the accrued fees to the admin and returns the amount.
// An empty vault is a no-op.
func (s *Staker) Sweep(caller pledge.Address) (amount *big.Int, err error) {
	logger.Debug("sweeping fees", "caller", caller)

	err = s.atomic(func() error {
		if err := s.onlyAdmin(caller); err != nil {
			return err
		}
		if amount, err = s.vaultService.Drain(); err != nil {
			return err
		}
		if amount.Sign() == 0 {
			return nil
		}
		s.emit(&Event{Kind: EventFeeWithdrawn, User: caller, Amount: amount})
		return s.transfer(s.addr, caller, amount)
	})
	if err != nil {
		logger.Info("sweep failed", "caller", caller, "error", err)
		return nil, err
	}

	logger.Info("swept fees", "amount", amount)
	return amount, nil
}

//
// Getters - no state change
//

// Address returns the contract address.
func (s *Staker) Address() pledge.Address {
	return s.addr
}

func (s *Staker) Admin() pledge.Address {
	return s.cfg.Admin
}

func (s *Staker) Policy() slashing.Policy {
	return s.cfg.Policy
}

// GetLock returns the lock of user by id. A lock of another owner reads as empty.
func (s *Staker) GetLock(user pledge.Address, id uint64) (*lock.Lock, error) {
	return s.lockService.GetOwned(user, id)
}

func (s *Staker) GetPool(b bucket.Bucket) (*pool.Pool, error) {
	return s.poolService.Get(b)
}

func (s *Staker) IsClaimed(user pledge.Address, id uint64) (bool, error) {
	return s.lockService.IsClaimed(user, id)
}

func (s *Staker) IsOccupied(user pledge.Address, b bucket.Bucket) (bool, error) {
	return s.lockService.IsOccupied(user, b)
}

// NextLockID returns the id the next created lock receives.
func (s *Staker) NextLockID() (uint64, error) {
	return s.lockService.NextID()
}

func (s *Staker) MinStakeUSD() *big.Int {
	return new(big.Int).Set(pledge.MinStakeUSD)
}

func (s *Staker) TrustedSigner() pledge.Address {
	return s.verifier.Signer()
}

// TotalLocked returns the stake held by active locks.
func (s *Staker) TotalLocked() (*big.Int, error) {
	return s.vaultService.Locked()
}

// FeeBalance returns the accrued fees. Admin only.
func (s *Staker) FeeBalance(caller pledge.Address) (*big.Int, error) {
	if err := s.onlyAdmin(caller); err != nil {
		return nil, err
	}
	return s.vaultService.Fees()
}
