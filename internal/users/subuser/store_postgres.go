// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package subuser

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khawarh/taskpro/internal/platform/apperr"
	"github.com/khawarh/taskpro/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(context context.Context, subUser *SubUser) error {
	const query = `
		INSERT INTO users.account (id, email, passwordhash, isowner, ownerid, createdat, updatedat)
		VALUES ($1, $2, $3, FALSE, $4, $5, $6)`

	now := time.Now()
	subUser.CreatedAt = now
	subUser.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		subUser.ID,
		subUser.Email,
		subUser.PasswordHash,
		subUser.OwnerID,
		subUser.CreatedAt,
		subUser.UpdatedAt,
	)

	return dberr.Wrap(err, "create_subuser")
}

func (repository *PostgresRepository) EmailExists(context context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users.account WHERE email = $1)`

	var exists bool
	if err := repository.db.QueryRow(context, query, email).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "subuser_email_exists")
	}

	return exists, nil
}

func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string, limit, offset int) ([]*SubUser, int, error) {
	const countQuery = `SELECT count(*) FROM users.account WHERE ownerid = $1`
	const query = `
		SELECT id, email, ownerid, createdat, updatedat
		FROM users.account
		WHERE ownerid = $1
		ORDER BY createdat ASC
		LIMIT $2 OFFSET $3`

	var total int
	if err := repository.db.QueryRow(context, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_subusers")
	}

	rows, err := repository.db.Query(context, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_subusers")
	}
	defer rows.Close()

	var subUsers []*SubUser
	for rows.Next() {
		s := &SubUser{}
		if err := rows.Scan(&s.ID, &s.Email, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_subuser")
		}
		subUsers = append(subUsers, s)
	}

	return subUsers, total, nil
}

// DeleteOwned removes a sub-user iff it belongs to the given owner. Ownership
// is a predicate of the DELETE itself; zero affected rows is "not found" for
// bogus IDs and other owners' sub-users alike. Session rows go with the
// account via FK cascade.
func (repository *PostgresRepository) DeleteOwned(context context.Context, ownerID, subUserID string) error {
	const query = `DELETE FROM users.account WHERE id = $1 AND ownerid = $2 AND isowner = FALSE`

	cmd, err := repository.db.Exec(context, query, subUserID, ownerID)
	if err != nil {
		return dberr.Wrap(err, "delete_subuser")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Sub-user")
	}
	return nil
}
