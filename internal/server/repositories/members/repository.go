package members

import (
	"context"

	"github.com/dmitrijs2005/contactshare/internal/server/models"
)

type Repository interface {
	Add(ctx context.Context, groupID, userID, role string) (*models.GroupMember, error)
	Exists(ctx context.Context, groupID, userID string) (bool, error)
	ListByGroup(ctx context.Context, groupID string) ([]*models.GroupMember, error)
}
