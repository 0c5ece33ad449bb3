// Package groups provides the PostgreSQL-backed group repository.
package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/dbx"
	"github.com/dmitrijs2005/contactshare/internal/server/models"
)

// PostgresRepository implements group storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListForUser returns the groups userID belongs to, most recently updated first.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	query :=
		`SELECT g.id, g.name, g.description, g.created_by, g.created_at, g.updated_at
		 FROM groups g
		 JOIN group_members gm ON g.id = gm.group_id
		 WHERE gm.user_id = $1
		 ORDER BY g.updated_at DESC, g.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Group, 0)
	for rows.Next() {
		g := &models.Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Create inserts the group and fills ID and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, group *models.Group) (*models.Group, error) {
	query :=
		`INSERT INTO groups (name, description, created_by)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, group.Name, group.Description, group.CreatedBy).
		Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return group, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	query :=
		`SELECT id, name, description, created_by, created_at, updated_at
		 FROM groups
		 WHERE id = $1`

	g := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return g, nil
}

// Delete removes the group; memberships and contacts go with it through
// ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM groups WHERE id = $1`, id)
}

// Touch bumps updated_at so the group moves to the top of listings.
func (r *PostgresRepository) Touch(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE groups SET updated_at = now() WHERE id = $1`, id)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, id string) error {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if dbx.IsInvalidText(err) {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}
