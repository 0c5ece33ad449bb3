// Package members provides the PostgreSQL-backed repository for group
// memberships. A user is a member of a group iff a row exists here.
package members

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/dbx"
	"github.com/dmitrijs2005/contactshare/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add inserts a membership. Adding an existing member yields
// common.ErrAlreadyExists.
func (r *PostgresRepository) Add(ctx context.Context, groupID, userID, role string) (*models.GroupMember, error) {
	query :=
		`INSERT INTO group_members (group_id, user_id, role)
		 VALUES ($1, $2, $3)
		 RETURNING id, joined_at`

	m := &models.GroupMember{GroupID: groupID, UserID: userID, Role: role}
	err := r.db.QueryRowContext(ctx, query, groupID, userID, role).Scan(&m.ID, &m.JoinedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

// Exists reports whether userID is a member of groupID. A malformed id is
// simply not a member.
func (r *PostgresRepository) Exists(ctx context.Context, groupID, userID string) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
		 )`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&ok); err != nil {
		if dbx.IsInvalidText(err) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return ok, nil
}

// ListByGroup returns the group's members with their names, oldest first.
func (r *PostgresRepository) ListByGroup(ctx context.Context, groupID string) ([]*models.GroupMember, error) {
	query :=
		`SELECT gm.id, gm.group_id, gm.user_id, gm.role, gm.joined_at, u.name, u.email
		 FROM group_members gm
		 JOIN users u ON u.id = gm.user_id
		 WHERE gm.group_id = $1
		 ORDER BY gm.joined_at, gm.id`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.GroupMember, 0)
	for rows.Next() {
		m := &models.GroupMember{}
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &m.JoinedAt, &m.UserName, &m.UserEmail); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
