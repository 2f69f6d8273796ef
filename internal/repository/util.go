package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// mysqlErrNoReferencedRow is raised when an INSERT or UPDATE violates a
// foreign key constraint (the referenced row is missing).
const mysqlErrNoReferencedRow = 1452

// isFKViolation reports whether err is a MySQL foreign key failure.
func isFKViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrNoReferencedRow
}

// placeholders returns "?, ?, ..." with n entries for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// dedupeIDs removes duplicates and returns the ids sorted ascending.
func dedupeIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// resolveIDs returns the subset of ids that exist in the given table.
// Unknown ids are dropped, never reported as an error; callers rely on this
// when building association sets.  Runs inside the caller's transaction.
func resolveIDs(ctx context.Context, tx *sql.Tx, table string, ids []uint64) ([]uint64, error) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return []uint64{}, nil
	}
	q := "SELECT id FROM " + table + " WHERE id IN (" + placeholders(len(ids)) + ") ORDER BY id"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uint64, 0, len(ids))
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
