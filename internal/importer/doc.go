// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package importer copies salon records from the legacy MySQL database into
the embedded DuckDB store.

Tables are copied in dependency order: salons, customers, appointments,
transactions, then reviews. Each table is read in keyset pages ordered by id
and written one page per DuckDB transaction with INSERT OR REPLACE, so an
interrupted import can simply be run again.

Source values go through the same normalization as reads from DuckDB:
status and transaction type spellings are mapped with the models parsers and
ratings are clamped. Rows copied are counted in
salonpulse_importer_rows_total by table.

The source DSN may be a mysql:// or mariadb:// URL or a native driver DSN.
Either form is rewritten with parseTime enabled and UTC as the location.
*/
package importer
