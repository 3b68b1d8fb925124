package list

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

func (repository *PostgresRepository) ListByUser(context context.Context, userID string, limit, offset int) ([]*List, int, error) {
	const countQuery = `SELECT count(*) FROM core.list WHERE userid = $1`
	const query = `
		SELECT id, title, userid, createdat, updatedat
		FROM core.list
		WHERE userid = $1
		ORDER BY createdat ASC
		LIMIT $2 OFFSET $3`

	var total int
	if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_lists")
	}

	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_lists")
	}
	defer rows.Close()

	var lists []*List
	for rows.Next() {
		l := &List{}
		if err := rows.Scan(&l.ID, &l.Title, &l.UserID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_list")
		}
		lists = append(lists, l)
	}

	return lists, total, nil
}

func (repository *PostgresRepository) Create(context context.Context, l *List) error {
	const query = `
		INSERT INTO core.list (id, title, userid, createdat, updatedat)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query, l.ID, l.Title, l.UserID).Scan(&l.CreatedAt, &l.UpdatedAt)
	return dberr.Wrap(err, "create_list")
}

// UpdateOwned mutates a list only when the caller owns it. The ownership
// predicate is part of the statement, so another user's list and a missing
// list are the same zero-row result.
func (repository *PostgresRepository) UpdateOwned(context context.Context, l *List) error {
	const query = `
		UPDATE core.list
		SET title = $3, updatedat = NOW()
		WHERE id = $1 AND userid = $2
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query, l.ID, l.UserID, l.Title).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("List")
		}
		return dberr.Wrap(err, "update_list")
	}
	return nil
}

func (repository *PostgresRepository) DeleteOwned(context context.Context, userID, listID string) error {
	const query = `DELETE FROM core.list WHERE id = $1 AND userid = $2`

	cmd, err := repository.db.Exec(context, query, listID, userID)
	if err != nil {
		return dberr.Wrap(err, "delete_list")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("List")
	}
	return nil
}
