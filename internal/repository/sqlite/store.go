package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/apperror"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/changefeed"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/model"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// columns lists the writable columns of every table. Table and column names
// are interpolated into SQL, so nothing outside this list is ever accepted.
// id and created_at are managed by the store.
var columns = map[string][]string{
	model.TableNewsletterSignups:     {"email", "name", "source"},
	model.TableContactSubmissions:    {"name", "email", "phone", "subject", "message", "source"},
	model.TableProgramRegistrations:  {"parent_name", "email", "phone", "child_name", "child_age", "program", "session_id", "message", "source"},
	model.TableWorkshopRegistrations: {"workshop_id", "name", "email", "phone", "child_age", "source"},
	model.TableHackathons: {"title", "description", "theme", "status", "starts_at", "ends_at",
		"registration_deadline", "max_participants", "current_participants"},
	model.TableHackathonRegistrations: {"hackathon_id", "name", "email", "phone", "age", "team_id", "looking_for_team", "source"},
	model.TableHackathonTeams:         {"hackathon_id", "name", "description", "creator_email", "source"},
	model.TableHackathonSubmissions: {"hackathon_id", "team_id", "project_name", "description",
		"demo_url", "repo_url", "video_url", "technologies", "source"},
}

func checkColumns(table string, rec map[string]any, extra ...string) error {
	allowed, ok := columns[table]
	if !ok {
		return fmt.Errorf("sqlite: unknown table %q", table)
	}
	for col := range rec {
		if !contains(allowed, col) && !contains(extra, col) {
			return fmt.Errorf("sqlite: unknown column %q in table %q", col, table)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// sortedKeys gives a deterministic column order for generated SQL.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// where builds "col1 = ? AND col2 = ?" for a filter. A nil filter value
// matches NULL.
func where(filter repository.Filter) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}
	keys := sortedKeys(filter)
	parts := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		if filter[k] == nil {
			parts = append(parts, k+" IS NULL")
			continue
		}
		parts = append(parts, k+" = ?")
		args = append(args, filter[k])
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

// Insert writes one row and returns its generated id. Unique violations come
// back as apperror.ErrConflict so callers can show "already exists".
func (db *DB) Insert(ctx context.Context, table string, rec repository.Record) (string, error) {
	if err := checkColumns(table, rec); err != nil {
		return "", err
	}

	id := xid.New().String()
	row := make(map[string]any, len(rec)+2)
	for k, v := range rec {
		row[k] = v
	}
	row["id"] = id
	row["created_at"] = time.Now().UTC()

	cols := sortedKeys(row)
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = row[c]
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	_, err := db.conn.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, table, strings.Join(cols, ", "), placeholders),
		args...,
	)
	if err != nil {
		if isConstraintError(err) {
			return "", apperror.Conflict("record already exists", err)
		}
		return "", fmt.Errorf("sqlite: inserting into %s: %w", table, err)
	}

	db.publish(table, changefeed.EventInsert, id)
	return id, nil
}

// Select returns the rows matching filter in insertion order.
func (db *DB) Select(ctx context.Context, table string, filter repository.Filter) ([]repository.Record, error) {
	if err := checkColumns(table, filter, "id", "created_at"); err != nil {
		return nil, err
	}

	clause, args := where(filter)
	rows, err := db.conn.QueryContext(ctx,
		fmt.Sprintf(`SELECT * FROM %s%s ORDER BY rowid`, table, clause),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: selecting from %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading columns of %s: %w", table, err)
	}

	var out []repository.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite: scanning %s row: %w", table, err)
		}
		rec := make(repository.Record, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[c] = string(b)
				continue
			}
			rec[c] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating %s: %w", table, err)
	}

	return out, nil
}

// Update applies patch to the rows matching filter and returns how many
// changed. An empty filter is rejected rather than updating the whole table.
func (db *DB) Update(ctx context.Context, table string, patch repository.Record, filter repository.Filter) (int64, error) {
	if len(patch) == 0 {
		return 0, fmt.Errorf("sqlite: empty patch for %s", table)
	}
	if len(filter) == 0 {
		return 0, fmt.Errorf("sqlite: refusing unfiltered update of %s", table)
	}
	if err := checkColumns(table, patch); err != nil {
		return 0, err
	}
	if err := checkColumns(table, filter, "id"); err != nil {
		return 0, err
	}

	keys := sortedKeys(patch)
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+len(filter))
	for i, k := range keys {
		sets[i] = k + " = ?"
		args = append(args, patch[k])
	}
	clause, whereArgs := where(filter)
	args = append(args, whereArgs...)

	result, err := db.conn.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET %s%s`, table, strings.Join(sets, ", "), clause),
		args...,
	)
	if err != nil {
		if isConstraintError(err) {
			return 0, apperror.Conflict("record already exists", err)
		}
		return 0, fmt.Errorf("sqlite: updating %s: %w", table, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n > 0 {
		rowID, _ := filter["id"].(string)
		db.publish(table, changefeed.EventUpdate, rowID)
	}
	return n, nil
}
