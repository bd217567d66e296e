// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pledge

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Bytes32 is a 32 byte word: a hash, a storage slot or a storage value.
type Bytes32 [32]byte

func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

// AbbrevString keeps the first 4 and last 4 bytes.
func (b Bytes32) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", b[:4], b[28:])
}

func (b Bytes32) Bytes() []byte {
	return b[:]
}

func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

// MarshalText encodes b as 0x prefixed hex, also used for JSON.
func (b Bytes32) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes32) UnmarshalText(text []byte) error {
	parsed, err := ParseBytes32(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBytes32 decodes 64 hex digits, with or without the 0x prefix.
func ParseBytes32(s string) (b Bytes32, err error) {
	digits := s
	if len(s) >= 2 && strings.EqualFold(s[:2], "0x") {
		digits = s[2:]
	}
	if len(digits) != len(b)*2 {
		return Bytes32{}, errors.Errorf("invalid bytes32 length %d", len(s))
	}
	if _, err := hex.Decode(b[:], []byte(digits)); err != nil {
		return Bytes32{}, errors.Wrap(err, "invalid bytes32")
	}
	return b, nil
}

// BytesToBytes32 left pads b to 32 bytes, keeping the last 32 bytes of longer input.
func BytesToBytes32(b []byte) Bytes32 {
	return Bytes32(common.BytesToHash(b))
}
