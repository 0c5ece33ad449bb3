package groups

import (
	"context"

	"github.com/dmitrijs2005/contactshare/internal/server/models"
)

type Repository interface {
	ListForUser(ctx context.Context, userID string) ([]*models.Group, error)
	Create(ctx context.Context, group *models.Group) (*models.Group, error)
	GetByID(ctx context.Context, id string) (*models.Group, error)
	Delete(ctx context.Context, id string) error
	Touch(ctx context.Context, id string) error
}
