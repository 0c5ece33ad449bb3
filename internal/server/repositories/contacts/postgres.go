// Package contacts provides the PostgreSQL-backed contact repository.
// Empty optional fields are written as NULL.
package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/dbx"
	"github.com/dmitrijs2005/contactshare/internal/server/models"
)

const contactColumns = `id, group_id, name, phone_number, email, notes, added_by, created_at, updated_at,
	(SELECT u.name FROM users u WHERE u.id = contacts.added_by)`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByGroup returns the group's contacts ordered by name, with the name of
// the member who added each one.
func (r *PostgresRepository) ListByGroup(ctx context.Context, groupID string) ([]*models.Contact, error) {
	query :=
		`SELECT c.id, c.group_id, c.name, c.phone_number, c.email, c.notes, c.added_by,
		        c.created_at, c.updated_at, u.name
		 FROM contacts c
		 LEFT JOIN users u ON c.added_by = u.id
		 WHERE c.group_id = $1
		 ORDER BY c.name ASC, c.id`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Contact, 0)
	for rows.Next() {
		c := &models.Contact{}
		err := rows.Scan(&c.ID, &c.GroupID, &c.Name, &c.PhoneNumber, &c.Email, &c.Notes, &c.AddedBy,
			&c.CreatedAt, &c.UpdatedAt, &c.AddedByName)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Create inserts the contact and returns the stored row. A group or author
// that no longer exists is reported as common.ErrNotFound.
func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query :=
		`INSERT INTO contacts (group_id, name, phone_number, email, notes, added_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + contactColumns

	row := r.db.QueryRowContext(ctx, query,
		contact.GroupID, contact.Name,
		nullable(contact.PhoneNumber), nullable(contact.Email), nullable(contact.Notes),
		contact.AddedBy)

	return scanContact(row)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	return scanContact(r.db.QueryRowContext(ctx, query, id))
}

// Update replaces the editable fields and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, id string, fields models.ContactFields) (*models.Contact, error) {
	query :=
		`UPDATE contacts
		 SET name = $2, phone_number = $3, email = $4, notes = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + contactColumns

	row := r.db.QueryRowContext(ctx, query, id, fields.Name,
		nullString(fields.PhoneNumber), nullString(fields.Email), nullString(fields.Notes))

	return scanContact(row)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
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

func scanContact(row *sql.Row) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.GroupID, &c.Name, &c.PhoneNumber, &c.Email, &c.Notes, &c.AddedBy,
		&c.CreatedAt, &c.UpdatedAt, &c.AddedByName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) || dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func nullable(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
