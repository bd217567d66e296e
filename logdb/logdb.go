// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"math"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/pledge/pledge"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmts         *statements
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	return open(path, path+"?_journal=wal&cache=shared", 0)
}

// NewMem create a log db in ram. It holds a single connection, so queries
// must not be issued while a Writer is uncommitted.
func NewMem() (*LogDB, error) {
	return open(":memory:", ":memory:", 1)
}

func open(path, dsn string, maxConns int) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}

	stmts, err := prepareStatements(db)
	if err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmts:         stmts,
	}, nil
}

// Close close the log db.
func (db *LogDB) Close() error {
	if err := db.stmts.Close(); err != nil {
		db.db.Close()
		return err
	}
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the sqlite library.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		args []any
		stmt = "SELECT * FROM event WHERE 1"
	)
	if filter.Range != nil {
		r, rargs := rangeCondition(filter.Range)
		stmt += r
		args = append(args, rargs...)
	}
	if len(filter.CriteriaSet) > 0 {
		stmt += " AND ("
		for i, c := range filter.CriteriaSet {
			cond, cargs := c.toWhereCondition()
			if i > 0 {
				stmt += " OR "
			}
			stmt += "(" + cond + ")"
			args = append(args, cargs...)
		}
		stmt += ")"
	}
	stmt += orderAndLimit(filter.Order, filter.Options, &args)
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, "SELECT * FROM transfer ORDER BY seq ASC")
	}
	metricsHandleCommon(filter.Options, filter.Order, len(filter.CriteriaSet), "transfer")

	var (
		args []any
		stmt = "SELECT * FROM transfer WHERE 1"
	)
	if filter.Range != nil {
		r, rargs := rangeCondition(filter.Range)
		stmt += r
		args = append(args, rargs...)
	}
	if len(filter.CriteriaSet) > 0 {
		stmt += " AND ("
		for i, c := range filter.CriteriaSet {
			cond, cargs := c.toWhereCondition()
			if i > 0 {
				stmt += " OR "
			}
			stmt += "(" + cond + ")"
			args = append(args, cargs...)
		}
		stmt += ")"
	}
	stmt += orderAndLimit(filter.Order, filter.Options, &args)
	return db.queryTransfers(ctx, stmt, args...)
}

func rangeCondition(r *Range) (string, []any) {
	from := newSequence(r.From, 0)
	if r.To < r.From {
		return " AND seq >= ?", []any{from}
	}
	return " AND seq >= ? AND seq <= ?", []any{from, newSequence(r.To, math.MaxInt32)}
}

func orderAndLimit(order Order, options *Options, args *[]any) string {
	stmt := " ORDER BY seq ASC"
	if order == DESC {
		stmt = " ORDER BY seq DESC"
	}
	if options != nil {
		stmt += " LIMIT ?, ?"
		*args = append(*args, options.Offset, options.Limit)
	}
	return stmt
}

// NewestCallNumber returns the number of the newest call having written records.
func (db *LogDB) NewestCallNumber() (uint32, error) {
	var newest sequence
	for _, table := range []string{"event", "transfer"} {
		var seq sql.NullInt64
		if err := db.db.QueryRow("SELECT MAX(seq) FROM " + table).Scan(&seq); err != nil {
			return 0, err
		}
		if seq.Valid && sequence(seq.Int64) > newest {
			newest = sequence(seq.Int64)
		}
	}
	return newest.CallNumber(), nil
}

func bigValue(v *big.Int) []byte {
	if v == nil {
		return nil
	}
	return v.Bytes()
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq        sequence
			time       uint64
			kind       string
			user       []byte
			lockID     uint64
			day        uint64
			period     uint8
			prevDay    uint64
			prevPeriod uint8
			amount     []byte
			penalty    []byte
			refund     []byte
			reward     []byte
			severity   uint8
			root       []byte
		)
		if err := rows.Scan(
			&seq,
			&time,
			&kind,
			&user,
			&lockID,
			&day,
			&period,
			&prevDay,
			&prevPeriod,
			&amount,
			&penalty,
			&refund,
			&reward,
			&severity,
			&root,
		); err != nil {
			return nil, err
		}
		events = append(events, &Event{
			CallNumber: seq.CallNumber(),
			Index:      seq.Index(),
			Time:       time,
			Kind:       kind,
			User:       pledge.BytesToAddress(user),
			LockID:     lockID,
			Day:        day,
			Period:     period,
			PrevDay:    prevDay,
			PrevPeriod: prevPeriod,
			Amount:     new(big.Int).SetBytes(amount),
			Penalty:    new(big.Int).SetBytes(penalty),
			Refund:     new(big.Int).SetBytes(refund),
			Reward:     new(big.Int).SetBytes(reward),
			Severity:   severity,
			Root:       pledge.BytesToBytes32(root),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, stmt string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       sequence
			time      uint64
			sender    []byte
			recipient []byte
			amount    []byte
		)
		if err := rows.Scan(&seq, &time, &sender, &recipient, &amount); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			CallNumber: seq.CallNumber(),
			Index:      seq.Index(),
			Time:       time,
			Sender:     pledge.BytesToAddress(sender),
			Recipient:  pledge.BytesToAddress(recipient),
			Amount:     new(big.Int).SetBytes(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

// NewWriter creates a log writer.
func (db *LogDB) NewWriter() *Writer {
	return &Writer{db: db.db, stmts: db.stmts}
}

// Writer writes logs in transactions.
type Writer struct {
	db    *sql.DB
	stmts *statements

	tx          *sql.Tx
	uncommitted int
}

// Write writes the records of one call. Indexes are assigned in order.
func (w *Writer) Write(callNum uint32, time uint64, events []*Event, transfers []*Transfer) error {
	return w.exec(func(tx *sql.Tx) error {
		insertEvent := tx.Stmt(w.stmts.insertEvent)
		for i, ev := range events {
			ev.CallNumber, ev.Index, ev.Time = callNum, uint32(i), time
			if _, err := insertEvent.Exec(
				newSequence(callNum, uint32(i)),
				time,
				ev.Kind,
				ev.User.Bytes(),
				ev.LockID,
				ev.Day,
				ev.Period,
				ev.PrevDay,
				ev.PrevPeriod,
				bigValue(ev.Amount),
				bigValue(ev.Penalty),
				bigValue(ev.Refund),
				bigValue(ev.Reward),
				ev.Severity,
				ev.Root.Bytes(),
			); err != nil {
				return err
			}
		}
		insertTransfer := tx.Stmt(w.stmts.insertTransfer)
		for i, tr := range transfers {
			tr.CallNumber, tr.Index, tr.Time = callNum, uint32(i), time
			if _, err := insertTransfer.Exec(
				newSequence(callNum, uint32(i)),
				time,
				tr.Sender.Bytes(),
				tr.Recipient.Bytes(),
				bigValue(tr.Amount),
			); err != nil {
				return err
			}
		}
		w.uncommitted += len(events) + len(transfers)
		return nil
	})
}

// Truncate deletes records of calls from callNum (included).
func (w *Writer) Truncate(callNum uint32) error {
	seq := newSequence(callNum, 0)
	return w.exec(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM event WHERE seq >= ?", seq); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM transfer WHERE seq >= ?", seq); err != nil {
			return err
		}
		return nil
	})
}

// Commit commits accumulated logs.
func (w *Writer) Commit() (err error) {
	if w.tx == nil {
		return nil
	}
	if err = w.tx.Commit(); err == nil {
		w.tx = nil
		w.uncommitted = 0
	}
	return
}

// Rollback rollbacks all uncommitted logs.
func (w *Writer) Rollback() (err error) {
	if w.tx == nil {
		return nil
	}
	if err = w.tx.Rollback(); err == nil {
		w.tx = nil
		w.uncommitted = 0
	}
	return
}

// UncommittedCount returns the count of uncommitted logs.
func (w *Writer) UncommittedCount() int {
	return w.uncommitted
}

func (w *Writer) exec(fn func(tx *sql.Tx) error) (err error) {
	if w.tx == nil {
		if w.tx, err = w.db.Begin(); err != nil {
			return
		}
	}
	if err = fn(w.tx); err != nil {
		if rbErr := w.tx.Rollback(); rbErr == nil {
			w.tx = nil
			w.uncommitted = 0
		}
	}
	return
}
