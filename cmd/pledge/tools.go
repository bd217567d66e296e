// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"encoding/json"
	"io"
	"math"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/pledge/builtin/staker/slashing"
	"github.com/vechain/pledge/builtin/staker/verify"
	"github.com/vechain/pledge/cry"
	"github.com/vechain/pledge/pledge"
)

// RewardList is the input of the merkle command.
type RewardList struct {
	Rewards []struct {
		Account string `yaml:"account"`
		Amount  string `yaml:"amount"`
	} `yaml:"rewards"`
}

// RewardTree is the output of the merkle command, ready to finalize a pool and to claim from it.
type RewardTree struct {
	Root    pledge.Bytes32 `json:"root"`
	Rewards []RewardProof  `json:"rewards"`
}

type RewardProof struct {
	Account pledge.Address           `json:"account"`
	Reward  *ethmath.HexOrDecimal256 `json:"reward"`
	Proof   []pledge.Bytes32         `json:"proof"`
}

// buildRewardTree reads a reward list and computes the root with a proof per account.
func buildRewardTree(r io.Reader) (*RewardTree, error) {
	var list RewardList
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&list); err != nil {
		return nil, errors.Wrap(err, "decode reward list")
	}
	if len(list.Rewards) == 0 {
		return nil, errors.New("empty reward list")
	}

	var (
		leaves  = make([]pledge.Bytes32, 0, len(list.Rewards))
		rewards = make([]RewardProof, 0, len(list.Rewards))
		seen    = make(map[pledge.Address]bool, len(list.Rewards))
	)
	for i, entry := range list.Rewards {
		addr, err := pledge.ParseAddress(entry.Account)
		if err != nil {
			return nil, errors.WithMessagef(err, "reward #%d", i)
		}
		if seen[*addr] {
			return nil, errors.Errorf("reward #%d: duplicated account %v", i, addr)
		}
		seen[*addr] = true

		amount, ok := new(big.Int).SetString(entry.Amount, 0)
		if !ok || amount.Sign() <= 0 || amount.BitLen() > 256 {
			return nil, errors.Errorf("reward #%d: invalid amount %q", i, entry.Amount)
		}
		leaves = append(leaves, cry.MerkleLeaf(*addr, amount))
		rewards = append(rewards, RewardProof{Account: *addr, Reward: (*ethmath.HexOrDecimal256)(amount)})
	}

	tree, err := cry.NewMerkleTree(leaves)
	if err != nil {
		return nil, err
	}
	for i := range rewards {
		if rewards[i].Proof, err = tree.Proof(leaves[i]); err != nil {
			return nil, err
		}
		if rewards[i].Proof == nil {
			rewards[i].Proof = []pledge.Bytes32{}
		}
	}
	return &RewardTree{Root: tree.Root(), Rewards: rewards}, nil
}

func merkleAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("reward list file required")
	}
	f, err := os.Open(ctx.Args().First())
	if err != nil {
		return errors.Wrap(err, "open reward list")
	}
	defer f.Close()

	tree, err := buildRewardTree(f)
	if err != nil {
		return err
	}
	return writeJSON(ctx.App.Writer, tree)
}

// SignedOutcome is the output of the sign command.
type SignedOutcome struct {
	Signer         pledge.Address `json:"signer"`
	Caller         pledge.Address `json:"caller"`
	CommitmentTime uint64         `json:"commitmentTime"`
	Duration       uint64         `json:"duration"`
	Severity       uint8          `json:"severity"`
	Signature      hexutil.Bytes  `json:"signature"`
}

func signAction(ctx *cli.Context) error {
	cfg := &Config{}
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = loadConfig(path); err != nil {
			return err
		}
	}
	cfg.applyFlags(ctx)

	contract, err := parseAddress("contract", cfg.Contract, defaultContract)
	if err != nil {
		return err
	}
	policyName := cfg.Policy
	if policyName == "" {
		policyName = slashing.WakeUpName
	}
	if _, err := slashing.ByName(policyName); err != nil {
		return err
	}

	key, err := loadSignKey(ctx)
	if err != nil {
		return err
	}

	if !ctx.IsSet(callerFlag.Name) {
		return errors.New("caller required")
	}
	caller, err := pledge.ParseAddress(ctx.String(callerFlag.Name))
	if err != nil {
		return errors.WithMessage(err, "caller")
	}
	severity := ctx.Uint(severityFlag.Name)
	if severity > math.MaxUint8 {
		return errors.Errorf("severity %d out of range", severity)
	}

	outcome := &verify.Outcome{
		Caller:         *caller,
		CommitmentTime: ctx.Uint64(commitmentTimeFlag.Name),
		Duration:       ctx.Uint64(durationFlag.Name),
		Severity:       uint8(severity),
	}
	signer := cry.PubkeyToAddress(&key.PublicKey)
	sig, err := verify.New(policyName, contract, signer).Sign(outcome, key)
	if err != nil {
		return err
	}
	return writeJSON(ctx.App.Writer, &SignedOutcome{
		Signer:         signer,
		Caller:         outcome.Caller,
		CommitmentTime: outcome.CommitmentTime,
		Duration:       outcome.Duration,
		Severity:       outcome.Severity,
		Signature:      sig,
	})
}

func loadSignKey(ctx *cli.Context) (*ecdsa.PrivateKey, error) {
	if ctx.IsSet(keyFlag.Name) {
		return cry.ParseKey(ctx.String(keyFlag.Name))
	}
	if path := ctx.String(keyFileFlag.Name); path != "" {
		return cry.LoadKeyFile(path)
	}
	return nil, errors.New("key or key-file required")
}

func keygenAction(ctx *cli.Context) error {
	key, err := cry.GenerateKey()
	if err != nil {
		return err
	}
	out := map[string]string{"address": cry.PubkeyToAddress(&key.PublicKey).String()}

	if path := ctx.String(outFlag.Name); path != "" {
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("key file [%v] exists", path)
		}
		if err := cry.SaveKeyFile(path, key); err != nil {
			return errors.Wrap(err, "save key")
		}
		out["keyFile"] = path
	} else {
		out["privateKey"] = hexutil.Encode(crypto.FromECDSA(key))
	}
	return writeJSON(ctx.App.Writer, out)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
