// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bucket

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/vechain/pledge/pledge"
)

// Period is the half of a day.
type Period uint8

const (
	AM Period = iota
	PM
)

func (p Period) String() string {
	switch p {
	case AM:
		return "AM"
	case PM:
		return "PM"
	}
	return "P" + strconv.Itoa(int(p))
}

// Bucket is the (day, period) key partitioning time into cohorts.
type Bucket struct {
	Day    uint64
	Period Period
}

// Of maps a unix timestamp to its bucket.
func Of(timestamp uint64) Bucket {
	return Bucket{
		Day:    timestamp / pledge.SecondsPerDay,
		Period: Period((timestamp % pledge.SecondsPerDay) / pledge.SecondsPerPeriod),
	}
}

// New builds a bucket from raw fields, rejecting an out of range period.
func New(day uint64, period uint8) (Bucket, error) {
	b := Bucket{Day: day, Period: Period(period)}
	if !b.Valid() {
		return Bucket{}, errors.Errorf("invalid period %d", period)
	}
	return b, nil
}

// Valid reports whether the period is in range.
func (b Bucket) Valid() bool {
	return uint64(b.Period) < pledge.PeriodsPerDay
}

// Start returns the first timestamp of the bucket.
func (b Bucket) Start() uint64 {
	return b.Day*pledge.SecondsPerDay + uint64(b.Period)*pledge.SecondsPerPeriod
}

// Bytes returns the storage key of the bucket.
func (b Bucket) Bytes() []byte {
	var buf [9]byte
	binary.BigEndian.PutUint64(buf[:8], b.Day)
	buf[8] = byte(b.Period)
	return buf[:]
}

func (b Bucket) String() string {
	return fmt.Sprintf("%d/%v", b.Day, b.Period)
}

// Parse parses the "day/period" form, period being AM, PM, 0 or 1.
func Parse(s string) (Bucket, error) {
	day, period, ok := strings.Cut(s, "/")
	if !ok {
		return Bucket{}, errors.Errorf("invalid bucket %q", s)
	}
	d, err := strconv.ParseUint(day, 10, 64)
	if err != nil {
		return Bucket{}, errors.Wrap(err, "parse day")
	}
	switch strings.ToUpper(period) {
	case "AM", "0":
		return Bucket{Day: d, Period: AM}, nil
	case "PM", "1":
		return Bucket{Day: d, Period: PM}, nil
	}
	return Bucket{}, errors.Errorf("invalid period %q", period)
}
