package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/contactshare/internal/dbx"
	"github.com/dmitrijs2005/contactshare/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contactshare/internal/server/repositories/groups"
	"github.com/dmitrijs2005/contactshare/internal/server/repositories/members"
	"github.com/dmitrijs2005/contactshare/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Groups(db dbx.DBTX) groups.Repository
	Members(db dbx.DBTX) members.Repository
	Contacts(db dbx.DBTX) contacts.Repository
}
