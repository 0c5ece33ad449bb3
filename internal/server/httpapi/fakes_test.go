package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/logging"
	"github.com/dmitrijs2005/contactshare/internal/server/auth"
	"github.com/dmitrijs2005/contactshare/internal/server/events"
	"github.com/dmitrijs2005/contactshare/internal/server/models"
	"github.com/dmitrijs2005/contactshare/internal/server/services"
)

const (
	testSecret = "k"
	ownerID    = "11111111-1111-1111-1111-111111111111"
	memberID   = "22222222-2222-2222-2222-222222222222"
	strangerID = "33333333-3333-3333-3333-333333333333"
	groupID    = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	contactID  = "cccccccc-cccc-cccc-cccc-cccccccccccc"
	missingID  = "ffffffff-ffff-ffff-ffff-ffffffffffff"
)

// ---- fakes ----

type fakeUsers struct {
	session *services.Session
	err     error
	me      *models.User
}

func (f *fakeUsers) Signup(ctx context.Context, email, password, name string) (*services.Session, error) {
	return f.session, f.err
}
func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.Session, error) {
	return f.session, f.err
}
func (f *fakeUsers) Me(ctx context.Context, userID string) (*models.User, error) {
	if f.me == nil || f.me.ID != userID {
		return nil, common.ErrUnauthenticated
	}
	return f.me, nil
}

type fakeGroups struct {
	list      []*models.Group
	created   *models.Group
	err       error
	deletedID string
}

func (f *fakeGroups) List(ctx context.Context, userID string) ([]*models.Group, error) {
	return f.list, f.err
}
func (f *fakeGroups) Create(ctx context.Context, userID, name, description string) (*models.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Group{ID: groupID, Name: name, CreatedBy: userID}, nil
}
func (f *fakeGroups) Get(ctx context.Context, id string) (*services.GroupDetails, error) {
	return &services.GroupDetails{
		Group:   &models.Group{ID: id, Name: "Family", CreatedBy: ownerID},
		Members: []*models.GroupMember{{ID: "m-1", GroupID: id, UserID: ownerID, Role: common.RoleAdmin, UserName: "Owner"}},
	}, f.err
}
func (f *fakeGroups) Delete(ctx context.Context, id, actorID string) error {
	f.deletedID = id
	return f.err
}

type fakeContacts struct {
	err        error
	lastGroup  string
	lastFields models.ContactFields
	updatedID  string
	deletedID  string
}

func (f *fakeContacts) List(ctx context.Context, gid string) ([]*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Contact{{ID: contactID, GroupID: gid, Name: "Ann"}}, nil
}
func (f *fakeContacts) Create(ctx context.Context, gid, userID string, fl models.ContactFields) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastGroup, f.lastFields = gid, fl
	return &models.Contact{ID: contactID, GroupID: gid, Name: fl.Name, AddedBy: &userID}, nil
}
func (f *fakeContacts) Update(ctx context.Context, id, userID string, fl models.ContactFields) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updatedID, f.lastFields = id, fl
	return &models.Contact{ID: id, GroupID: groupID, Name: fl.Name}, nil
}
func (f *fakeContacts) Delete(ctx context.Context, id, userID string) error {
	f.deletedID = id
	return f.err
}

type fakeTransfers struct {
	file       *services.ExportFile
	link       *services.ExportLink
	err        error
	importName string
	importBody string
	imported   []*models.Contact
}

func (f *fakeTransfers) Export(ctx context.Context, gid, format string) (*services.ExportFile, error) {
	return f.file, f.err
}
func (f *fakeTransfers) ExportLink(ctx context.Context, gid, format string) (*services.ExportLink, error) {
	return f.link, f.err
}
func (f *fakeTransfers) Import(ctx context.Context, gid, userID, filename string, r io.Reader) ([]*models.Contact, error) {
	b, _ := io.ReadAll(r)
	f.importName, f.importBody = filename, string(b)
	return f.imported, f.err
}

// fakeGuard knows one group (owned by ownerID, with memberID as member)
// holding one contact.
type fakeGuard struct{}

func (fakeGuard) RequireMember(ctx context.Context, gid, userID string) error {
	if gid == groupID && (userID == ownerID || userID == memberID) {
		return nil
	}
	return common.ErrForbidden
}
func (fakeGuard) RequireCreator(ctx context.Context, gid, userID string) (*models.Group, error) {
	if gid != groupID {
		return nil, errGroupNotFound
	}
	if userID != ownerID {
		return nil, common.ErrForbidden
	}
	return &models.Group{ID: gid, CreatedBy: ownerID}, nil
}
func (g fakeGuard) ContactAccess(ctx context.Context, cid, userID string) (*models.Contact, error) {
	if cid != contactID {
		return nil, errContactNotFound
	}
	if err := g.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return &models.Contact{ID: contactID, GroupID: groupID, Name: "Ann"}, nil
}

var (
	errGroupNotFound   = fmt.Errorf("group %w", common.ErrNotFound)
	errContactNotFound = fmt.Errorf("contact %w", common.ErrNotFound)
)

// ---- helpers ----

type fixture struct {
	users     *fakeUsers
	groups    *fakeGroups
	contacts  *fakeContacts
	transfers *fakeTransfers
	bus       *events.MemoryBus
	handler   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, err := logging.New("slog", io.Discard)
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	f := &fixture{
		users:     &fakeUsers{},
		groups:    &fakeGroups{},
		contacts:  &fakeContacts{},
		transfers: &fakeTransfers{},
		bus:       events.NewMemoryBus(),
	}
	t.Cleanup(func() { _ = f.bus.Close() })
	s := NewServer(Options{
		SecretKey:       []byte(testSecret),
		SessionValidity: time.Hour,
		AllowedOrigins:  []string{"http://localhost:3000"},
		MaxUploadBytes:  1 << 20,
	}, log, f.users, f.groups, f.contacts, f.transfers, fakeGuard{}, f.bus)
	f.handler = s.Routes()
	return f
}

func sessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	tok, err := auth.IssueToken(userID, userID+"@example.com", []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return &http.Cookie{Name: common.SessionCookieName, Value: tok}
}
