package task

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khawarh/taskpro/internal/platform/apperr"
	"github.com/khawarh/taskpro/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # List-Scoped Access

// ListByList returns the tasks of a list the caller owns.
//
// The count query drives authorization: it selects from core.list first, so
// zero rows means the list is missing or not the caller's (404 either way),
// while an owned-but-empty list still yields a row with count 0.
func (repository *PostgresRepository) ListByList(context context.Context, callerID, listID string, limit, offset int) ([]*Task, int, error) {
	const countQuery = `
		SELECT count(t.id)
		FROM core.list l
		LEFT JOIN core.task t ON t.listid = l.id
		WHERE l.id = $1 AND l.userid = $2
		GROUP BY l.id`
	const query = `
		SELECT t.id, t.title, t.listid, t.userid, t.createdat, t.updatedat
		FROM core.task t
		INNER JOIN core.list l ON l.id = t.listid
		WHERE l.id = $1 AND l.userid = $2
		ORDER BY t.createdat ASC
		LIMIT $3 OFFSET $4`

	var total int
	err := repository.db.QueryRow(context, countQuery, listID, callerID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, apperr.NotFound("List")
		}
		return nil, 0, dberr.Wrap(err, "count_list_tasks")
	}

	rows, err := repository.db.Query(context, query, listID, callerID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_list_tasks")
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// CreateInList inserts a task iff the caller owns the parent list, in one
// INSERT ... SELECT statement. Zero inserted rows means no such owned list.
func (repository *PostgresRepository) CreateInList(context context.Context, callerID, listID string, t *Task) error {
	const query = `
		INSERT INTO core.task (id, title, listid, createdat, updatedat)
		SELECT $1, $2, l.id, NOW(), NOW()
		FROM core.list l
		WHERE l.id = $3 AND l.userid = $4
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query, t.ID, t.Title, listID, callerID).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("List")
		}
		return dberr.Wrap(err, "create_list_task")
	}
	return nil
}

func (repository *PostgresRepository) GetInList(context context.Context, callerID, listID, taskID string) (*Task, error) {
	const query = `
		SELECT t.id, t.title, t.listid, t.userid, t.createdat, t.updatedat
		FROM core.task t
		INNER JOIN core.list l ON l.id = t.listid
		WHERE t.id = $1 AND l.id = $2 AND l.userid = $3`

	t := &Task{}
	err := repository.db.QueryRow(context, query, taskID, listID, callerID).Scan(
		&t.ID, &t.Title, &t.ListID, &t.UserID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Task")
		}
		return nil, dberr.Wrap(err, "get_list_task")
	}

	return t, nil
}

func (repository *PostgresRepository) UpdateInList(context context.Context, callerID, listID string, t *Task) error {
	const query = `
		UPDATE core.task t
		SET title = $4, updatedat = NOW()
		FROM core.list l
		WHERE t.id = $1 AND t.listid = l.id AND l.id = $2 AND l.userid = $3
		RETURNING t.createdat, t.updatedat`

	err := repository.db.QueryRow(context, query, t.ID, listID, callerID, t.Title).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Task")
		}
		return dberr.Wrap(err, "update_list_task")
	}
	return nil
}

func (repository *PostgresRepository) DeleteInList(context context.Context, callerID, listID, taskID string) error {
	const query = `
		DELETE FROM core.task t
		USING core.list l
		WHERE t.id = $1 AND t.listid = l.id AND l.id = $2 AND l.userid = $3`

	cmd, err := repository.db.Exec(context, query, taskID, listID, callerID)
	if err != nil {
		return dberr.Wrap(err, "delete_list_task")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Task")
	}
	return nil
}

// # Sub-User-Scoped Access

// ListByUser returns a sub-user's tasks. Authorization joins users.account on
// ownerid = caller, so only the sub-user's actual owner gets through; anyone
// else sees 404.
func (repository *PostgresRepository) ListByUser(context context.Context, callerID, targetUserID string, limit, offset int) ([]*Task, int, error) {
	const countQuery = `
		SELECT count(t.id)
		FROM users.account u
		LEFT JOIN core.task t ON t.userid = u.id
		WHERE u.id = $1 AND u.ownerid = $2
		GROUP BY u.id`
	const query = `
		SELECT t.id, t.title, t.listid, t.userid, t.createdat, t.updatedat
		FROM core.task t
		INNER JOIN users.account u ON u.id = t.userid
		WHERE u.id = $1 AND u.ownerid = $2
		ORDER BY t.createdat ASC
		LIMIT $3 OFFSET $4`

	var total int
	err := repository.db.QueryRow(context, countQuery, targetUserID, callerID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, apperr.NotFound("Sub-user")
		}
		return nil, 0, dberr.Wrap(err, "count_user_tasks")
	}

	rows, err := repository.db.Query(context, query, targetUserID, callerID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_user_tasks")
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (repository *PostgresRepository) CreateForUser(context context.Context, callerID, targetUserID string, t *Task) error {
	const query = `
		INSERT INTO core.task (id, title, userid, createdat, updatedat)
		SELECT $1, $2, u.id, NOW(), NOW()
		FROM users.account u
		WHERE u.id = $3 AND u.ownerid = $4
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query, t.ID, t.Title, targetUserID, callerID).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Sub-user")
		}
		return dberr.Wrap(err, "create_user_task")
	}
	return nil
}

func (repository *PostgresRepository) GetForUser(context context.Context, callerID, targetUserID, taskID string) (*Task, error) {
	const query = `
		SELECT t.id, t.title, t.listid, t.userid, t.createdat, t.updatedat
		FROM core.task t
		INNER JOIN users.account u ON u.id = t.userid
		WHERE t.id = $1 AND u.id = $2 AND u.ownerid = $3`

	t := &Task{}
	err := repository.db.QueryRow(context, query, taskID, targetUserID, callerID).Scan(
		&t.ID, &t.Title, &t.ListID, &t.UserID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Task")
		}
		return nil, dberr.Wrap(err, "get_user_task")
	}

	return t, nil
}

func (repository *PostgresRepository) UpdateForUser(context context.Context, callerID, targetUserID string, t *Task) error {
	const query = `
		UPDATE core.task t
		SET title = $4, updatedat = NOW()
		FROM users.account u
		WHERE t.id = $1 AND t.userid = u.id AND u.id = $2 AND u.ownerid = $3
		RETURNING t.createdat, t.updatedat`

	err := repository.db.QueryRow(context, query, t.ID, targetUserID, callerID, t.Title).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Task")
		}
		return dberr.Wrap(err, "update_user_task")
	}
	return nil
}

func (repository *PostgresRepository) DeleteForUser(context context.Context, callerID, targetUserID, taskID string) error {
	const query = `
		DELETE FROM core.task t
		USING users.account u
		WHERE t.id = $1 AND t.userid = u.id AND u.id = $2 AND u.ownerid = $3`

	cmd, err := repository.db.Exec(context, query, taskID, targetUserID, callerID)
	if err != nil {
		return dberr.Wrap(err, "delete_user_task")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Task")
	}
	return nil
}

// # Cascade Cleanup

func (repository *PostgresRepository) DeleteByListID(context context.Context, listID string) error {
	const query = `DELETE FROM core.task WHERE listid = $1`

	if _, err := repository.db.Exec(context, query, listID); err != nil {
		return dberr.Wrap(err, "cascade_delete_list_tasks")
	}
	return nil
}

func (repository *PostgresRepository) DeleteByUserID(context context.Context, userID string) error {
	const query = `DELETE FROM core.task WHERE userid = $1`

	if _, err := repository.db.Exec(context, query, userID); err != nil {
		return dberr.Wrap(err, "cascade_delete_user_tasks")
	}
	return nil
}

func scanTasks(rows pgx.Rows) ([]*Task, error) {
	var tasks []*Task
	for rows.Next() {
		t := &Task{}
		if err := rows.Scan(&t.ID, &t.Title, &t.ListID, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_task")
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
