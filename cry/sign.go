// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"crypto/ecdsa"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/pledge/pledge"
)

// SignatureLength is the length of a [R || S || V] signature.
const SignatureLength = crypto.SignatureLength

var (
	errSignatureLength = errors.New("invalid signature length")
	errRecoveryID      = errors.New("invalid recovery id")
	errSignatureValues = errors.New("invalid signature values")

	personalPrefix = []byte("\x19Ethereum Signed Message:\n32")
)

// PersonalHash wraps a 32-byte digest with the EIP-191 "personal message" prefix.
func PersonalHash(digest pledge.Bytes32) pledge.Bytes32 {
	return pledge.Keccak256(personalPrefix, digest[:])
}

// Sign signs the digest with the given key. V of the returned signature is 27 or 28.
func Sign(digest pledge.Bytes32, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}

// Recover extracts the signer address of the digest. Both 0/1 and 27/28 recovery ids
// are accepted; signatures with s in the upper half of the curve order are rejected.
func Recover(digest pledge.Bytes32, sig []byte) (pledge.Address, error) {
	if len(sig) != SignatureLength {
		return pledge.Address{}, errSignatureLength
	}
	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)

	switch v := normalized[64]; v {
	case 0, 1:
	case 27, 28:
		normalized[64] = v - 27
	default:
		return pledge.Address{}, errRecoveryID
	}

	r := new(big.Int).SetBytes(normalized[:32])
	s := new(big.Int).SetBytes(normalized[32:64])
	if !crypto.ValidateSignatureValues(normalized[64], r, s, true) {
		return pledge.Address{}, errSignatureValues
	}

	pub, err := crypto.SigToPub(digest[:], normalized)
	if err != nil {
		return pledge.Address{}, err
	}
	return PubkeyToAddress(pub), nil
}

// PubkeyToAddress derives the address of the public key.
func PubkeyToAddress(pub *ecdsa.PublicKey) pledge.Address {
	return pledge.Address(crypto.PubkeyToAddress(*pub))
}

// GenerateKey creates a new random secp256k1 key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return crypto.GenerateKey()
}

// ParseKey decodes a hex encoded private key, with or without 0x prefix.
func ParseKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode key")
	}
	return crypto.ToECDSA(b)
}

// LoadKeyFile reads a hex encoded private key from file.
func LoadKeyFile(path string) (*ecdsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read key file")
	}
	return ParseKey(string(b))
}

// SaveKeyFile writes the key hex encoded with restricted permission.
func SaveKeyFile(path string, key *ecdsa.PrivateKey) error {
	return os.WriteFile(path, []byte(hexutil.Encode(crypto.FromECDSA(key))[2:]), 0o600)
}
