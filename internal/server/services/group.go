package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/dbx"
	"github.com/dmitrijs2005/contactshare/internal/logging"
	"github.com/dmitrijs2005/contactshare/internal/server/events"
	"github.com/dmitrijs2005/contactshare/internal/server/models"
	"github.com/dmitrijs2005/contactshare/internal/server/repositories/repomanager"
)

// GroupDetails is a group with its member list.
type GroupDetails struct {
	Group   *models.Group
	Members []*models.GroupMember
}

type GroupService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	bus         events.Bus
	log         logging.Logger
}

func NewGroupService(db *sql.DB, m repomanager.RepositoryManager, bus events.Bus, log logging.Logger) *GroupService {
	return &GroupService{db: db, repomanager: m, bus: bus, log: log}
}

// List returns the groups userID belongs to, most recently updated first.
func (s *GroupService) List(ctx context.Context, userID string) ([]*models.Group, error) {
	groups, err := s.repomanager.Groups(s.db).ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing groups: %w", err)
	}
	return groups, nil
}

// Create makes a group and enrolls its creator as the only admin. Both rows
// are written in one transaction.
func (s *GroupService) Create(ctx context.Context, userID, name, description string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", common.ErrInvalidInput)
	}

	g := &models.Group{Name: name, CreatedBy: userID}
	if d := strings.TrimSpace(description); d != "" {
		g.Description = &d
	}

	var created *models.Group
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repomanager.Groups(tx).Create(ctx, g)
		if err != nil {
			return fmt.Errorf("error creating group: %w", err)
		}
		if _, err := s.repomanager.Members(tx).Add(ctx, created.ID, userID, common.RoleAdmin); err != nil {
			return fmt.Errorf("error adding group admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "group created", "group_id", created.ID, "user_id", userID)
	publish(ctx, s.bus, s.log, events.New(events.GroupCreated, created.ID, userID, map[string]string{"name": created.Name}))

	return created, nil
}

// Get returns the group and its members.
func (s *GroupService) Get(ctx context.Context, groupID string) (*GroupDetails, error) {
	group, err := s.repomanager.Groups(s.db).GetByID(ctx, groupID)
	if err != nil {
		return nil, describe("group", err)
	}

	members, err := s.repomanager.Members(s.db).ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}

	return &GroupDetails{Group: group, Members: members}, nil
}

// Delete removes the group. Memberships and contacts go with it.
func (s *GroupService) Delete(ctx context.Context, groupID, actorID string) error {
	if err := s.repomanager.Groups(s.db).Delete(ctx, groupID); err != nil {
		return describe("group", err)
	}

	s.log.Info(ctx, "group deleted", "group_id", groupID, "user_id", actorID)
	publish(ctx, s.bus, s.log, events.New(events.GroupDeleted, groupID, actorID, nil))

	return nil
}
