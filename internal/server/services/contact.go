package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/dbx"
	"github.com/dmitrijs2005/contactshare/internal/logging"
	"github.com/dmitrijs2005/contactshare/internal/server/events"
	"github.com/dmitrijs2005/contactshare/internal/server/models"
	"github.com/dmitrijs2005/contactshare/internal/server/repositories/repomanager"
)

// ContactService manages the contacts of a group. Every change also bumps
// the group's updated_at so group listings surface recent activity.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	bus         events.Bus
	log         logging.Logger
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager, bus events.Bus, log logging.Logger) *ContactService {
	return &ContactService{db: db, repomanager: m, bus: bus, log: log}
}

func (s *ContactService) List(ctx context.Context, groupID string) ([]*models.Contact, error) {
	contacts, err := s.repomanager.Contacts(s.db).ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}
	return contacts, nil
}

// Create adds a contact to the group, attributed to userID.
func (s *ContactService) Create(ctx context.Context, groupID, userID string, f models.ContactFields) (*models.Contact, error) {
	f, err := normalizeFields(f)
	if err != nil {
		return nil, err
	}

	var created *models.Contact
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repomanager.Contacts(tx).Create(ctx, newContact(groupID, userID, f))
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return describe("group", err)
			}
			return fmt.Errorf("error creating contact: %w", err)
		}
		return s.touch(ctx, tx, groupID)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, s.log, events.New(events.ContactCreated, groupID, userID, map[string]string{"id": created.ID}))
	return created, nil
}

// Update replaces the contact's editable fields.
func (s *ContactService) Update(ctx context.Context, contactID, userID string, f models.ContactFields) (*models.Contact, error) {
	f, err := normalizeFields(f)
	if err != nil {
		return nil, err
	}

	var updated *models.Contact
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		updated, err = s.repomanager.Contacts(tx).Update(ctx, contactID, f)
		if err != nil {
			return describe("contact", err)
		}
		return s.touch(ctx, tx, updated.GroupID)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, s.log, events.New(events.ContactUpdated, updated.GroupID, userID, map[string]string{"id": updated.ID}))
	return updated, nil
}

// Delete removes the contact.
func (s *ContactService) Delete(ctx context.Context, contactID, userID string) error {
	var groupID string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contacts(tx)
		c, err := repo.GetByID(ctx, contactID)
		if err != nil {
			return describe("contact", err)
		}
		groupID = c.GroupID
		if err := repo.Delete(ctx, contactID); err != nil {
			return describe("contact", err)
		}
		return s.touch(ctx, tx, groupID)
	})
	if err != nil {
		return err
	}

	publish(ctx, s.bus, s.log, events.New(events.ContactDeleted, groupID, userID, map[string]string{"id": contactID}))
	return nil
}

func (s *ContactService) touch(ctx context.Context, tx dbx.DBTX, groupID string) error {
	if err := s.repomanager.Groups(tx).Touch(ctx, groupID); err != nil {
		return fmt.Errorf("error touching group: %w", err)
	}
	return nil
}

func normalizeFields(f models.ContactFields) (models.ContactFields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
	f.Email = strings.TrimSpace(f.Email)
	f.Notes = strings.TrimSpace(f.Notes)
	if f.Name == "" {
		return f, fmt.Errorf("%w: name required", common.ErrInvalidInput)
	}
	return f, nil
}

func newContact(groupID, userID string, f models.ContactFields) *models.Contact {
	return &models.Contact{
		GroupID:     groupID,
		Name:        f.Name,
		PhoneNumber: optional(f.PhoneNumber),
		Email:       optional(f.Email),
		Notes:       optional(f.Notes),
		AddedBy:     optional(userID),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
