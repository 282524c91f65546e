// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"

	"github.com/MKhiriev/go-purge-users/internal/registry"
	"github.com/MKhiriev/go-purge-users/internal/validators"
	"github.com/MKhiriev/go-purge-users/models"
	sq "github.com/Masterminds/squirrel"
)

const (
	backupsTable = "purge_backups"
	ledgerTable  = "purge_ledger"

	// idColumn is the primary key column of every host table.
	idColumn = "id"

	identityAlias = validators.IdentityAlias
)

// Schema lookups differ per driver; everything else is built with squirrel.
const (
	postgresTableExists = `
		SELECT 1
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1;`

	postgresColumnExists = `
		SELECT 1
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2;`

	sqliteTableExists = `
		SELECT 1
		FROM sqlite_master
		WHERE type = 'table' AND name = ?;`

	sqliteColumnExists = `
		SELECT 1
		FROM pragma_table_info(?)
		WHERE name = ?;`

	sqliteTableColumns = `
		SELECT name
		FROM pragma_table_info(?)
		ORDER BY cid;`
)

func checkIdentifiers(names ...string) error {
	for _, name := range names {
		if !validators.IsIdentifier(name) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
		}
	}
	return nil
}

// buildFindPurgeCandidatesQuery selects deleted users that hold neither a
// no-purge nor a restored ledger entry, lowest ids first.
func buildFindPurgeCandidatesQuery(b sq.StatementBuilderType, identityTable, deletedColumn string, limit uint64) (string, []any, error) {
	if err := checkIdentifiers(identityTable, deletedColumn); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := b.
		Select(identityAlias+"."+idColumn).
		From(identityTable+" "+identityAlias).
		LeftJoin(ledgerTable+" l ON l.user_id = "+identityAlias+"."+idColumn+" AND l.status IN (?,?)",
			models.StatusNoPurge.String(), models.StatusRestored.String()).
		Where(sq.Eq{identityAlias + "." + deletedColumn: 1}).
		Where(sq.Eq{"l.user_id": nil}).
		OrderBy(identityAlias + "." + idColumn).
		Limit(limit).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildFindUsersWithoutReferencesQuery left-joins every reference against the
// identity table, restricted to userIDs, and keeps the ids for which all
// joined references are NULL.
func buildFindUsersWithoutReferencesQuery(b sq.StatementBuilderType, identityTable string, userIDs []int64, refs []registry.Descriptor) (string, []any, error) {
	if err := checkIdentifiers(identityTable); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	idRef := identityAlias + "." + idColumn
	q := b.Select(idRef).From(identityTable + " " + identityAlias)
	for _, ref := range refs {
		if err := checkIdentifiers(ref.Table, ref.Alias, ref.Field); err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		q = q.LeftJoin(fmt.Sprintf("%s %s ON %s.%s = %s", ref.Table, ref.Alias, ref.Alias, ref.Field, idRef))
	}

	q = q.Where(sq.Eq{idRef: userIDs})
	for _, ref := range refs {
		q = q.Where(sq.Eq{ref.Alias + "." + ref.Field: nil})
	}

	query, args, err := q.OrderBy(idRef).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildGetRecordQuery(b sq.StatementBuilderType, table string, id int64) (string, []any, error) {
	if err := checkIdentifiers(table); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return b.Select("*").From(table).Where(sq.Eq{idColumn: id}).ToSql()
}

// buildGetRawRecordQuery selects every column as "+column". The unary plus
// drops the declared column type, so go-sqlite3 hands back the stored value
// as is instead of parsing DATE, DATETIME, TIMESTAMP and BOOLEAN columns.
func buildGetRawRecordQuery(b sq.StatementBuilderType, table string, columns []string, id int64) (string, []any, error) {
	if len(columns) == 0 {
		return buildGetRecordQuery(b, table, id)
	}
	if err := checkIdentifiers(append([]string{table}, columns...)...); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	selected := make([]string, 0, len(columns))
	for _, column := range columns {
		selected = append(selected, "+"+column+" AS "+column)
	}
	return b.Select(selected...).From(table).Where(sq.Eq{idColumn: id}).ToSql()
}

func buildRecordExistsQuery(b sq.StatementBuilderType, table string, id int64) (string, []any, error) {
	if err := checkIdentifiers(table); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return b.Select("1").From(table).Where(sq.Eq{idColumn: id}).Limit(1).ToSql()
}

func buildFindRecordIDsQuery(b sq.StatementBuilderType, table, field string, userID int64) (string, []any, error) {
	if err := checkIdentifiers(table, field); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return b.Select(idColumn).From(table).Where(sq.Eq{field: userID}).OrderBy(idColumn).ToSql()
}

func buildInsertRecordQuery(b sq.StatementBuilderType, table string, record models.Snapshot) (string, []any, error) {
	if len(record) == 0 {
		return "", nil, ErrEmptySnapshot
	}
	columns := record.Columns()
	if err := checkIdentifiers(append([]string{table}, columns...)...); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return b.Insert(table).Columns(columns...).Values(record.Values()...).ToSql()
}

func buildDeleteRecordQuery(b sq.StatementBuilderType, table string, id int64) (string, []any, error) {
	if err := checkIdentifiers(table); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return b.Delete(table).Where(sq.Eq{idColumn: id}).ToSql()
}

// buildSaveBackupQuery upserts on (table_name, record_id, user_id).
func buildSaveBackupQuery(b sq.StatementBuilderType, backup models.Backup, record []byte) (string, []any, error) {
	return b.Insert(backupsTable).
		Columns("table_name", "record_id", "user_id", "captured_at", "record").
		Values(backup.Table, backup.RecordID, backup.UserID, backup.Timestamp.Unix(), string(record)).
		Suffix("ON CONFLICT (table_name, record_id, user_id) DO UPDATE SET captured_at = excluded.captured_at, record = excluded.record").
		ToSql()
}

func buildGetBackupQuery(b sq.StatementBuilderType, table string, userID int64) (string, []any, error) {
	return b.Select("table_name", "record_id", "user_id", "captured_at", "record").
		From(backupsTable).
		Where(sq.Eq{"table_name": table}).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("captured_at DESC", "record_id").
		Limit(1).
		ToSql()
}

func buildGetUserBackupsQuery(b sq.StatementBuilderType, userID int64) (string, []any, error) {
	return b.Select("table_name", "record_id", "user_id", "captured_at", "record").
		From(backupsTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("table_name", "record_id").
		ToSql()
}

// buildRecordStatusQuery upserts on (user_id, status).
func buildRecordStatusQuery(b sq.StatementBuilderType, userID int64, status models.Status, at int64) (string, []any, error) {
	return b.Insert(ledgerTable).
		Columns("user_id", "status", "updated_at").
		Values(userID, status.String(), at).
		Suffix("ON CONFLICT (user_id, status) DO UPDATE SET updated_at = excluded.updated_at").
		ToSql()
}

func buildGetStatusesQuery(b sq.StatementBuilderType, userID int64) (string, []any, error) {
	return b.Select("user_id", "status", "updated_at").
		From(ledgerTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at", "status").
		ToSql()
}

func buildIsPluginInstalledQuery(b sq.StatementBuilderType, pluginsTable, plugin string) (string, []any, error) {
	if err := checkIdentifiers(pluginsTable); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return b.Select("1").
		From(pluginsTable).
		Where(sq.Eq{"plugin": plugin}).
		Where(sq.Eq{"name": "version"}).
		Limit(1).
		ToSql()
}
