package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/server/models"
	"github.com/dmitrijs2005/contactshare/internal/server/repositories/repomanager"
)

// Guard answers authorization questions. It keeps no state: every call
// consults the database.
type Guard struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewGuard(db *sql.DB, m repomanager.RepositoryManager) *Guard {
	return &Guard{db: db, repomanager: m}
}

// RequireMember fails with common.ErrForbidden unless userID belongs to
// groupID.
func (g *Guard) RequireMember(ctx context.Context, groupID, userID string) error {
	ok, err := g.repomanager.Members(g.db).Exists(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("membership check: %w", err)
	}
	if !ok {
		return common.ErrForbidden
	}
	return nil
}

// RequireCreator returns the group if userID created it. A missing group is
// common.ErrNotFound; any other requester gets common.ErrForbidden.
func (g *Guard) RequireCreator(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := g.repomanager.Groups(g.db).GetByID(ctx, groupID)
	if err != nil {
		return nil, describe("group", err)
	}
	if group.CreatedBy != userID {
		return nil, common.ErrForbidden
	}
	return group, nil
}

// ContactAccess loads the contact and checks that userID is a member of its
// group. An unknown contact is reported as not found before membership is
// considered.
func (g *Guard) ContactAccess(ctx context.Context, contactID, userID string) (*models.Contact, error) {
	contact, err := g.repomanager.Contacts(g.db).GetByID(ctx, contactID)
	if err != nil {
		return nil, describe("contact", err)
	}
	if err := g.RequireMember(ctx, contact.GroupID, userID); err != nil {
		return nil, err
	}
	return contact, nil
}
