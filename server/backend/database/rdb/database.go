/*
 * Copyright 2026 The Revtask Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package rdb implements the database interface on relational databases
// through database/sql. SQLite is served by modernc.org/sqlite and
// PostgreSQL by the pgx driver.
package rdb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/server/backend/database"
	"github.com/revtask/revtask/server/logging"
)

//go:embed schema.sql
var schemaSQL string

const (
	revisionColumns = "id, task_id, seq, title, description, due_date, status, is_deleted, created_by, created_at"
	pointerColumns  = "revision_id, task_id, created_by, updated_by, created_at, updated_at"

	sequenceTaskID = "task_id"
)

// DB is a relational database.
type DB struct {
	conf *Config
	db   *sql.DB
}

// Dial opens the database of the given config and applies the schema.
func Dial(ctx context.Context, conf *Config) (*DB, error) {
	var db *sql.DB
	var err error

	switch conf.Driver {
	case DriverSQLite:
		db, err = sql.Open("sqlite", sqliteDataSource(conf.DataSource))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// NOTE: an in-memory database lives as long as its connection, and a
		// single connection also serializes writers.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	case DriverPostgres:
		db, err = sql.Open("pgx", conf.DataSource)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", conf.Driver, ErrInvalidDriver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", conf.Driver, err)
	}

	if err := applySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logging.DefaultLogger().Infof("RDB: connected, driver: %s", conf.Driver)

	return &DB{
		conf: conf,
		db:   db,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close %s: %w", d.conf.Driver, err)
	}
	return nil
}

// CreateUserInfo adds a user to the user directory.
func (d *DB) CreateUserInfo(ctx context.Context, id int64, username string) (*database.UserInfo, error) {
	info := &database.UserInfo{ID: id, Username: username}

	if err := d.Update(ctx, func(ctx context.Context, dbTx database.Tx) error {
		t := dbTx.(*tx)

		var exists int
		err := t.tx.QueryRowContext(ctx, t.bind(
			"SELECT 1 FROM users WHERE id = ? OR username = ?",
		), id, username).Scan(&exists)
		if err == nil {
			return fmt.Errorf("%d %s: %w", id, username, database.ErrUserAlreadyExists)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("find user %s: %w", username, err)
		}

		if _, err := t.tx.ExecContext(ctx, t.bind(
			"INSERT INTO users (id, username) VALUES (?, ?)",
		), id, username); err != nil {
			return fmt.Errorf("insert user %s: %w", username, err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return info, nil
}

// Truncate removes every row and resets the task id sequence.
func (d *DB) Truncate(ctx context.Context) error {
	return d.Update(ctx, func(ctx context.Context, dbTx database.Tx) error {
		t := dbTx.(*tx)
		for _, stmt := range []string{
			"DELETE FROM pointers",
			"DELETE FROM revisions",
			"DELETE FROM users",
		} {
			if _, err := t.tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("truncate: %w", err)
			}
		}

		if _, err := t.tx.ExecContext(ctx, t.bind(
			"UPDATE sequences SET value = 0 WHERE name = ?",
		), sequenceTaskID); err != nil {
			return fmt.Errorf("reset sequence: %w", err)
		}
		return nil
	})
}

// View runs fn in a read-only transaction.
func (d *DB) View(ctx context.Context, fn func(ctx context.Context, tx database.Tx) error) error {
	return d.run(ctx, false, fn)
}

// Update runs fn in a read-write transaction.
func (d *DB) Update(ctx context.Context, fn func(ctx context.Context, tx database.Tx) error) error {
	return d.run(ctx, true, fn)
}

func (d *DB) run(ctx context.Context, write bool, fn func(ctx context.Context, tx database.Tx) error) error {
	var opts *sql.TxOptions
	if !write && d.conf.Driver == DriverPostgres {
		opts = &sql.TxOptions{ReadOnly: true}
	}

	sqlTx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(ctx, &tx{tx: sqlTx, driver: d.conf.Driver, write: write}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// tx implements database.Tx over a database/sql transaction.
type tx struct {
	tx     *sql.Tx
	driver string
	write  bool
}

// AppendRevision inserts a new revision of the task.
func (t *tx) AppendRevision(
	ctx context.Context,
	taskID int64,
	content types.TaskContent,
	createdBy *int64,
	deleted bool,
) (*database.RevisionInfo, error) {
	latest, err := t.FindLatestRevision(ctx, taskID)
	if err != nil && !errors.Is(err, database.ErrRevisionNotFound) {
		return nil, err
	}

	info := database.NewRevisionInfo(taskID, content, createdBy, deleted, latest)
	if _, err := t.tx.ExecContext(ctx, t.bind(
		"INSERT INTO revisions ("+revisionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	),
		info.ID.String(),
		info.TaskID,
		info.Seq,
		nullString(info.Title),
		nullString(info.Description),
		nullDate(info.DueDate),
		info.Status.String(),
		info.IsDeleted,
		nullInt64(info.CreatedBy),
		info.CreatedAt.UnixMilli(),
	); err != nil {
		return nil, fmt.Errorf("insert revision of task %d: %w", taskID, err)
	}

	return info, nil
}

// FindLatestRevision returns the most recent revision of the task.
func (t *tx) FindLatestRevision(ctx context.Context, taskID int64) (*database.RevisionInfo, error) {
	info, err := scanRevision(t.tx.QueryRowContext(ctx, t.bind(
		"SELECT "+revisionColumns+" FROM revisions WHERE task_id = ? ORDER BY created_at DESC, seq DESC LIMIT 1",
	), taskID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest of task %d: %w", taskID, database.ErrRevisionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find latest revision of task %d: %w", taskID, err)
	}

	return info, nil
}

// FindActiveRevision returns the revision matching both keys that is not
// flagged deleted.
func (t *tx) FindActiveRevision(
	ctx context.Context,
	taskID int64,
	revisionID types.ID,
) (*database.RevisionInfo, error) {
	info, err := scanRevision(t.tx.QueryRowContext(ctx, t.bind(
		"SELECT "+revisionColumns+" FROM revisions WHERE id = ? AND task_id = ? AND is_deleted = FALSE",
	), revisionID.String(), taskID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s of task %d: %w", revisionID, taskID, database.ErrRevisionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find revision %s: %w", revisionID, err)
	}

	return info, nil
}

// FindRevisionInfos returns every revision of the task in ascending order.
func (t *tx) FindRevisionInfos(ctx context.Context, taskID int64) ([]*database.RevisionInfo, error) {
	rows, err := t.tx.QueryContext(ctx, t.bind(
		"SELECT "+revisionColumns+" FROM revisions WHERE task_id = ? ORDER BY created_at ASC, seq ASC",
	), taskID)
	if err != nil {
		return nil, fmt.Errorf("find revisions of task %d: %w", taskID, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var infos []*database.RevisionInfo
	for rows.Next() {
		info, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revision of task %d: %w", taskID, err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find revisions of task %d: %w", taskID, err)
	}

	return infos, nil
}

// FindPreviousRevision returns the most recent revision of the task other
// than the given one.
func (t *tx) FindPreviousRevision(
	ctx context.Context,
	taskID int64,
	revisionID types.ID,
) (*database.RevisionInfo, error) {
	info, err := scanRevision(t.tx.QueryRowContext(ctx, t.bind(
		"SELECT "+revisionColumns+" FROM revisions WHERE task_id = ? AND id <> ? "+
			"ORDER BY created_at DESC, seq DESC LIMIT 1",
	), taskID, revisionID.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("before %s of task %d: %w", revisionID, taskID, database.ErrRevisionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find revision before %s: %w", revisionID, err)
	}

	return info, nil
}

// RemoveRevision hard-deletes a single revision.
func (t *tx) RemoveRevision(ctx context.Context, revisionID types.ID) error {
	result, err := t.tx.ExecContext(ctx, t.bind(
		"DELETE FROM revisions WHERE id = ?",
	), revisionID.String())
	if err != nil {
		return fmt.Errorf("delete revision %s: %w", revisionID, err)
	}

	return expectOneRow(result, fmt.Errorf("%s: %w", revisionID, database.ErrRevisionNotFound))
}

// MarkRevisionDeleted sets the deleted flag of a single revision.
func (t *tx) MarkRevisionDeleted(ctx context.Context, revisionID types.ID, deleted bool) error {
	result, err := t.tx.ExecContext(ctx, t.bind(
		"UPDATE revisions SET is_deleted = ? WHERE id = ?",
	), deleted, revisionID.String())
	if err != nil {
		return fmt.Errorf("update revision %s: %w", revisionID, err)
	}

	return expectOneRow(result, fmt.Errorf("%s: %w", revisionID, database.ErrRevisionNotFound))
}

// NextTaskID increments the task id sequence and returns the new value.
func (t *tx) NextTaskID(ctx context.Context) (int64, error) {
	var next int64
	if err := t.tx.QueryRowContext(ctx, t.bind(
		"UPDATE sequences SET value = value + 1 WHERE name = ? RETURNING value",
	), sequenceTaskID).Scan(&next); err != nil {
		return 0, fmt.Errorf("next task id: %w", err)
	}
	return next, nil
}

// FindPointerInfo returns the current pointer of the task. In a write
// transaction on PostgreSQL the pointer row stays locked until commit, so
// writers of the same task are serialized.
func (t *tx) FindPointerInfo(ctx context.Context, taskID int64) (*database.PointerInfo, error) {
	query := "SELECT " + pointerColumns + " FROM pointers WHERE task_id = ?"
	if t.write && t.driver == DriverPostgres {
		query += " FOR UPDATE"
	}

	info, err := scanPointer(t.tx.QueryRowContext(ctx, t.bind(query), taskID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", taskID, database.ErrPointerNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find pointer of task %d: %w", taskID, err)
	}

	return info, nil
}

// CreatePointerInfo creates the current pointer of a task.
func (t *tx) CreatePointerInfo(ctx context.Context, info *database.PointerInfo) error {
	// NOTE: a failed statement aborts a PostgreSQL transaction, so conflicts
	// are checked before the insert instead of relying on constraints.
	var exists int
	err := t.tx.QueryRowContext(ctx, t.bind(
		"SELECT 1 FROM pointers WHERE task_id = ? OR revision_id = ?",
	), info.TaskID, info.RevisionID.String()).Scan(&exists)
	if err == nil {
		return fmt.Errorf("task %d: %w", info.TaskID, database.ErrPointerAlreadyExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("find pointer of task %d: %w", info.TaskID, err)
	}

	if _, err := t.tx.ExecContext(ctx, t.bind(
		"INSERT INTO pointers ("+pointerColumns+") VALUES (?, ?, ?, ?, ?, ?)",
	),
		info.RevisionID.String(),
		info.TaskID,
		nullInt64(info.CreatedBy),
		nullInt64(info.UpdatedBy),
		info.CreatedAt.UnixMilli(),
		info.UpdatedAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("insert pointer of task %d: %w", info.TaskID, err)
	}
	return nil
}

// UpdatePointerInfo replaces the current pointer of info.TaskID.
func (t *tx) UpdatePointerInfo(ctx context.Context, info *database.PointerInfo) error {
	var exists int
	err := t.tx.QueryRowContext(ctx, t.bind(
		"SELECT 1 FROM pointers WHERE revision_id = ? AND task_id <> ?",
	), info.RevisionID.String(), info.TaskID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("revision %s: %w", info.RevisionID, database.ErrPointerAlreadyExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("find pointer of revision %s: %w", info.RevisionID, err)
	}

	result, err := t.tx.ExecContext(ctx, t.bind(
		"UPDATE pointers SET revision_id = ?, created_by = ?, updated_by = ?, created_at = ?, updated_at = ? "+
			"WHERE task_id = ?",
	),
		info.RevisionID.String(),
		nullInt64(info.CreatedBy),
		nullInt64(info.UpdatedBy),
		info.CreatedAt.UnixMilli(),
		info.UpdatedAt.UnixMilli(),
		info.TaskID,
	)
	if err != nil {
		return fmt.Errorf("update pointer of task %d: %w", info.TaskID, err)
	}

	return expectOneRow(result, fmt.Errorf("task %d: %w", info.TaskID, database.ErrPointerNotFound))
}

// DeletePointerInfo removes the current pointer of the task.
func (t *tx) DeletePointerInfo(ctx context.Context, taskID int64) error {
	result, err := t.tx.ExecContext(ctx, t.bind(
		"DELETE FROM pointers WHERE task_id = ?",
	), taskID)
	if err != nil {
		return fmt.Errorf("delete pointer of task %d: %w", taskID, err)
	}

	return expectOneRow(result, fmt.Errorf("task %d: %w", taskID, database.ErrPointerNotFound))
}

// FindUserInfoByID returns the user of the given id.
func (t *tx) FindUserInfoByID(ctx context.Context, id int64) (*database.UserInfo, error) {
	info := &database.UserInfo{}
	err := t.tx.QueryRowContext(ctx, t.bind(
		"SELECT id, username FROM users WHERE id = ?",
	), id).Scan(&info.ID, &info.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%d: %w", id, database.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id %d: %w", id, err)
	}

	return info, nil
}

// FindUserInfoByName returns the user of the given username.
func (t *tx) FindUserInfoByName(ctx context.Context, username string) (*database.UserInfo, error) {
	info := &database.UserInfo{}
	err := t.tx.QueryRowContext(ctx, t.bind(
		"SELECT id, username FROM users WHERE username = ?",
	), username).Scan(&info.ID, &info.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", username, database.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	return info, nil
}

// FindTaskSummaries returns the page of live tasks matching the filter. The
// pointer, its active revision and both users are resolved in one join.
func (t *tx) FindTaskSummaries(
	ctx context.Context,
	filter *types.TaskFilter,
	paging types.Paging,
) ([]*database.TaskSummaryInfo, int64, error) {
	from := "FROM pointers p " +
		"JOIN revisions r ON r.id = p.revision_id AND r.task_id = p.task_id AND r.is_deleted = FALSE " +
		"LEFT JOIN users cu ON cu.id = p.created_by " +
		"LEFT JOIN users uu ON uu.id = p.updated_by"
	where, args := taskFilterClause(filter)

	var total int64
	if err := t.tx.QueryRowContext(ctx, t.bind(
		"SELECT COUNT(*) "+from+where,
	), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	query := "SELECT p.task_id, r.title, r.description, r.due_date, r.status, " +
		"p.created_by, cu.username, p.updated_by, uu.username " +
		from + where + " ORDER BY p.task_id ASC"
	if paging.PageSize > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, paging.PageSize, paging.Offset())
	}

	rows, err := t.tx.QueryContext(ctx, t.bind(query), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("find tasks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	infos := make([]*database.TaskSummaryInfo, 0)
	for rows.Next() {
		var (
			info                   database.TaskSummaryInfo
			title, description     sql.NullString
			dueDate                sql.NullString
			status                 string
			createdBy, updatedBy   sql.NullInt64
			createdByName, updName sql.NullString
		)
		if err := rows.Scan(
			&info.TaskID,
			&title,
			&description,
			&dueDate,
			&status,
			&createdBy,
			&createdByName,
			&updatedBy,
			&updName,
		); err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}

		info.Title = stringPtr(title)
		info.Description = stringPtr(description)
		if info.DueDate, err = datePtr(dueDate); err != nil {
			return nil, 0, err
		}
		info.Status = types.Status(status)
		info.CreatedBy = int64Ptr(createdBy)
		info.CreatedByUsername = stringPtr(createdByName)
		info.UpdatedBy = int64Ptr(updatedBy)
		info.UpdatedByUsername = stringPtr(updName)
		infos = append(infos, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("find tasks: %w", err)
	}

	return infos, total, nil
}

// bind rewrites ? placeholders into the style of the driver.
func (t *tx) bind(query string) string {
	if t.driver != DriverPostgres {
		return query
	}
	return rebind(query)
}

// rebind replaces ? placeholders with PostgreSQL's $1, $2, ...
func rebind(query string) string {
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// taskFilterClause builds the WHERE clause of the list join.
func taskFilterClause(filter *types.TaskFilter) (string, []any) {
	if filter == nil {
		return "", nil
	}

	var conds []string
	var args []any
	if filter.DueDate != nil {
		conds = append(conds, "r.due_date = ?")
		args = append(args, filter.DueDate.String())
	}
	if filter.Status != nil {
		conds = append(conds, "r.status = ?")
		args = append(args, filter.Status.String())
	}
	if filter.CreatedBy != nil {
		conds = append(conds, "p.created_by = ?")
		args = append(args, *filter.CreatedBy)
	}
	if filter.UpdatedBy != nil {
		conds = append(conds, "p.updated_by = ?")
		args = append(args, *filter.UpdatedBy)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(row scanner) (*database.RevisionInfo, error) {
	var (
		info               database.RevisionInfo
		id                 string
		title, description sql.NullString
		dueDate            sql.NullString
		status             string
		createdBy          sql.NullInt64
		createdAt          int64
	)
	if err := row.Scan(
		&id,
		&info.TaskID,
		&info.Seq,
		&title,
		&description,
		&dueDate,
		&status,
		&info.IsDeleted,
		&createdBy,
		&createdAt,
	); err != nil {
		return nil, err
	}

	var err error
	info.ID = types.ID(id)
	info.Title = stringPtr(title)
	info.Description = stringPtr(description)
	if info.DueDate, err = datePtr(dueDate); err != nil {
		return nil, err
	}
	info.Status = types.Status(status)
	info.CreatedBy = int64Ptr(createdBy)
	info.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &info, nil
}

func scanPointer(row scanner) (*database.PointerInfo, error) {
	var (
		info                 database.PointerInfo
		revisionID           string
		createdBy, updatedBy sql.NullInt64
		createdAt, updatedAt int64
	)
	if err := row.Scan(
		&revisionID,
		&info.TaskID,
		&createdBy,
		&updatedBy,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	info.RevisionID = types.ID(revisionID)
	info.CreatedBy = int64Ptr(createdBy)
	info.UpdatedBy = int64Ptr(updatedBy)
	info.CreatedAt = time.UnixMilli(createdAt).UTC()
	info.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &info, nil
}

// applySchema creates the tables if they do not exist. Statements are run
// one by one as not every driver accepts several in one call.
func applySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// sqliteDataSource adds the connection parameters every SQLite connection
// needs: immediate write locks and a busy timeout.
func sqliteDataSource(dsn string) string {
	if dsn == ":memory:" {
		dsn = "file::memory:"
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

func expectOneRow(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt64(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}

func nullDate(d *types.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func int64Ptr(i sql.NullInt64) *int64 {
	if !i.Valid {
		return nil
	}
	return &i.Int64
}

func datePtr(s sql.NullString) (*types.Date, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := types.ParseDate(s.String)
	if err != nil {
		return nil, fmt.Errorf("parse due date: %w", err)
	}
	return &d, nil
}
