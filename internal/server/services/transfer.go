package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/dbx"
	"github.com/dmitrijs2005/contactshare/internal/logging"
	"github.com/dmitrijs2005/contactshare/internal/server/events"
	"github.com/dmitrijs2005/contactshare/internal/server/exportstore"
	"github.com/dmitrijs2005/contactshare/internal/server/models"
	"github.com/dmitrijs2005/contactshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactshare/internal/server/transcode"
)

// ExportFile is a rendered export ready to be sent as an attachment.
type ExportFile struct {
	Name        string
	ContentType string
	Body        []byte
}

// ExportLink points at an export kept in object storage.
type ExportLink struct {
	URL       string
	ExpiresAt time.Time
}

// TransferService moves a group's contacts in and out of CSV and JSON files.
type TransferService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       exportstore.Store
	bus         events.Bus
	log         logging.Logger
	now         func() time.Time
}

// NewTransferService builds the service. store may be nil, in which case
// export links are unavailable.
func NewTransferService(db *sql.DB, m repomanager.RepositoryManager, store exportstore.Store, bus events.Bus, log logging.Logger) *TransferService {
	return &TransferService{db: db, repomanager: m, store: store, bus: bus, log: log, now: time.Now}
}

// Export renders every contact of the group in the requested format.
func (s *TransferService) Export(ctx context.Context, groupID, format string) (*ExportFile, error) {
	group, err := s.repomanager.Groups(s.db).GetByID(ctx, groupID)
	if err != nil {
		return nil, describe("group", err)
	}

	f, err := transcode.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	contacts, err := s.repomanager.Contacts(s.db).ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}

	records := make([]transcode.Record, 0, len(contacts))
	for _, c := range contacts {
		records = append(records, transcode.Record{
			Name:  c.Name,
			Phone: deref(c.PhoneNumber),
			Email: deref(c.Email),
			Notes: deref(c.Notes),
		})
	}

	now := s.now()
	var buf bytes.Buffer
	switch f {
	case transcode.FormatCSV:
		err = transcode.WriteCSV(&buf, records)
	case transcode.FormatJSON:
		err = transcode.WriteJSON(&buf, transcode.Document{
			Group:      transcode.DocumentGroup{Name: group.Name, Description: group.Description},
			Records:    records,
			ExportedAt: now,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	return &ExportFile{
		Name:        transcode.Filename(group.Name, f, now),
		ContentType: f.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

// ExportLink renders the export, stores it and returns a short-lived
// download link.
func (s *TransferService) ExportLink(ctx context.Context, groupID, format string) (*ExportLink, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: export links are not enabled", common.ErrInvalidInput)
	}

	file, err := s.Export(ctx, groupID, format)
	if err != nil {
		return nil, err
	}

	key, err := s.store.Put(ctx, file.Name, file.ContentType, file.Body)
	if err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	return &ExportLink{URL: url, ExpiresAt: s.now().Add(exportstore.LinkTTL).UTC()}, nil
}

// Import adds the contacts found in an uploaded file to the group, all or
// nothing. Files with an extension other than .csv or .json import nothing.
func (s *TransferService) Import(ctx context.Context, groupID, userID, filename string, r io.Reader) ([]*models.Contact, error) {
	var (
		records []transcode.Record
		err     error
	)
	format := transcode.FormatForFilename(filename)
	switch format {
	case transcode.FormatCSV:
		records, err = transcode.ReadCSV(r)
	case transcode.FormatJSON:
		records, err = transcode.ReadJSON(r)
	default:
		s.log.Warn(ctx, "import skipped: unsupported file type", "group_id", groupID, "filename", filename)
		return []*models.Contact{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	fields := make([]models.ContactFields, 0, len(records))
	for _, rec := range records {
		f, err := normalizeFields(models.ContactFields{Name: rec.Name, PhoneNumber: rec.Phone, Email: rec.Email, Notes: rec.Notes})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: name required", common.ErrInvalidInput, locate(format, rec))
		}
		fields = append(fields, f)
	}

	imported := make([]*models.Contact, 0, len(fields))
	if len(fields) == 0 {
		return imported, nil
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contacts(tx)
		for i, f := range fields {
			c, err := repo.Create(ctx, newContact(groupID, userID, f))
			if err != nil {
				return fmt.Errorf("error importing %s: %w", locate(format, records[i]), err)
			}
			imported = append(imported, c)
		}
		if err := s.repomanager.Groups(tx).Touch(ctx, groupID); err != nil {
			return fmt.Errorf("error touching group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "contacts imported", "group_id", groupID, "user_id", userID, "count", len(imported))
	publish(ctx, s.bus, s.log, events.New(events.ContactsImported, groupID, userID, map[string]int{"count": len(imported)}))

	return imported, nil
}

// locate names a record the way its source file counts: CSV by line, JSON
// by position in the contacts array.
func locate(f transcode.Format, rec transcode.Record) string {
	if f == transcode.FormatCSV {
		return fmt.Sprintf("line %d", rec.Line)
	}
	return fmt.Sprintf("contact %d", rec.Line)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
