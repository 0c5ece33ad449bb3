package contacts

import (
	"context"

	"github.com/dmitrijs2005/contactshare/internal/server/models"
)

type Repository interface {
	ListByGroup(ctx context.Context, groupID string) ([]*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	Update(ctx context.Context, id string, fields models.ContactFields) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
}
