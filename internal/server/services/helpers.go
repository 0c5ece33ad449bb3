package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/logging"
	"github.com/dmitrijs2005/contactshare/internal/server/events"
)

// publish delivers e on a best-effort basis: failures are logged and
// otherwise ignored.
func publish(ctx context.Context, bus events.Bus, log logging.Logger, e events.Event) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, e); err != nil {
		log.Warn(ctx, "event publish failed", "type", string(e.Type), "group_id", e.GroupID, "error", err)
	}
}

// describe names the entity in a not-found error ("contact not found") and
// passes other errors through.
func describe(entity string, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%s %w", entity, common.ErrNotFound)
	}
	return err
}
