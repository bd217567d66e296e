// Copyright (c) 2020 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"database/sql"

	"github.com/pkg/errors"
)

const (
	insertEventQuery = "INSERT OR REPLACE INTO event(seq, time, kind, user, lockID, day, period, prevDay, prevPeriod, amount, penalty, refund, reward, severity, root) " +
		"VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	insertTransferQuery = "INSERT OR REPLACE INTO transfer(seq, time, sender, recipient, amount) VALUES(?, ?, ?, ?, ?)"
)

// statements holds the prepared inserts. Filter queries are built per request
// and run unprepared.
type statements struct {
	insertEvent    *sql.Stmt
	insertTransfer *sql.Stmt
}

// prepareStatements must run before any writer transaction, which may hold
// the only connection of an in-memory db.
func prepareStatements(db *sql.DB) (*statements, error) {
	var (
		s   statements
		err error
	)
	if s.insertEvent, err = db.Prepare(insertEventQuery); err != nil {
		return nil, errors.Wrap(err, "prepare event insert")
	}
	if s.insertTransfer, err = db.Prepare(insertTransferQuery); err != nil {
		s.insertEvent.Close()
		return nil, errors.Wrap(err, "prepare transfer insert")
	}
	return &s, nil
}

func (s *statements) Close() error {
	err := s.insertEvent.Close()
	if e := s.insertTransfer.Close(); err == nil {
		err = e
	}
	return err
}
