// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for contract events
const eventTableSchema = `
create table if not exists event (
	seq integer primary key not null,
	time integer not null,
	kind text not null,
	user blob(20),
	lockID integer,
	day integer,
	period integer,
	prevDay integer,
	prevPeriod integer,
	amount blob,
	penalty blob,
	refund blob,
	reward blob,
	severity integer,
	root blob(32)
);

create index if not exists event_i0 on event(user, kind);
create index if not exists event_i1 on event(day, period);
create index if not exists event_i2 on event(lockID);
`

// create a table for value transfers
const transferTableSchema = `
create table if not exists transfer (
	seq integer primary key not null,
	time integer not null,
	sender blob(20) not null,
	recipient blob(20) not null,
	amount blob(32) not null
);

create index if not exists transfer_i0 on transfer(sender);
create index if not exists transfer_i1 on transfer(recipient);
`
