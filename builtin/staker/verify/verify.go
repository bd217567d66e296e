// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package verify binds outcome signatures and reward proofs to the contract.
package verify

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/pledge/cry"
	"github.com/vechain/pledge/pledge"
)

// Domain returns the signing domain of a policy.
func Domain(policyName string) pledge.Bytes32 {
	return pledge.Keccak256([]byte("pledge/" + policyName))
}

// Outcome is the attested result of a commitment.
type Outcome struct {
	Caller         pledge.Address
	CommitmentTime uint64
	Duration       uint64
	Severity       uint8
}

// Digest returns the EIP-191 wrapped hash signed by the trusted signer:
// keccak256(domain ‖ contract ‖ caller ‖ uint256(time) ‖ uint256(duration) ‖ uint256(severity)).
func (o *Outcome) Digest(domain pledge.Bytes32, contract pledge.Address) pledge.Bytes32 {
	var (
		t = uint256.NewInt(o.CommitmentTime).Bytes32()
		d = uint256.NewInt(o.Duration).Bytes32()
		s = uint256.NewInt(uint64(o.Severity)).Bytes32()
	)
	inner := pledge.Keccak256(domain[:], contract[:], o.Caller[:], t[:], d[:], s[:])
	return cry.PersonalHash(inner)
}

// Verifier checks outcome signatures against the trusted signer.
type Verifier struct {
	domain   pledge.Bytes32
	contract pledge.Address
	signer   pledge.Address
}

func New(policyName string, contract, signer pledge.Address) *Verifier {
	return &Verifier{
		domain:   Domain(policyName),
		contract: contract,
		signer:   signer,
	}
}

// Signer returns the trusted signer.
func (v *Verifier) Signer() pledge.Address {
	return v.signer
}

// Sign produces the outcome signature. Used by tooling and tests.
func (v *Verifier) Sign(o *Outcome, key *ecdsa.PrivateKey) ([]byte, error) {
	return cry.Sign(o.Digest(v.domain, v.contract), key)
}

// VerifyOutcome accepts iff the signature recovers to the trusted signer.
func (v *Verifier) VerifyOutcome(o *Outcome, sig []byte) bool {
	if v.signer.IsZero() {
		return false
	}
	signer, err := cry.Recover(o.Digest(v.domain, v.contract), sig)
	if err != nil {
		return false
	}
	return signer == v.signer
}

// VerifyReward accepts iff the proof recomputes the root from leaf(caller, reward).
func VerifyReward(root pledge.Bytes32, caller pledge.Address, reward *big.Int, proof []pledge.Bytes32) bool {
	if root.IsZero() {
		return false
	}
	return cry.VerifyMerkleProof(proof, root, cry.MerkleLeaf(caller, reward))
}
