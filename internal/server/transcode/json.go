package transcode

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Document is the JSON export file.
type Document struct {
	Group      DocumentGroup
	Records    []Record
	ExportedAt time.Time
}

type DocumentGroup struct {
	Name        string
	Description *string
}

type jsonDocument struct {
	Group      jsonGroup     `json:"group"`
	Contacts   []jsonContact `json:"contacts"`
	ExportedAt string        `json:"exportedAt"`
}

type jsonGroup struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type jsonContact struct {
	Name        string  `json:"name"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
	Notes       *string `json:"notes"`
}

type jsonImport struct {
	Contacts []jsonContact `json:"contacts"`
}

// WriteJSON writes doc indented by two spaces. Empty optional fields are
// rendered as null.
func WriteJSON(w io.Writer, doc Document) error {
	out := jsonDocument{
		Group:      jsonGroup{Name: doc.Group.Name, Description: doc.Group.Description},
		Contacts:   make([]jsonContact, 0, len(doc.Records)),
		ExportedAt: doc.ExportedAt.UTC().Format(time.RFC3339),
	}
	for _, r := range doc.Records {
		out.Contacts = append(out.Contacts, jsonContact{
			Name:        r.Name,
			PhoneNumber: optional(r.Phone),
			Email:       optional(r.Email),
			Notes:       optional(r.Notes),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ReadJSON reads the contacts array of an uploaded JSON file. Other keys are
// ignored and a missing array yields no records.
func ReadJSON(r io.Reader) ([]Record, error) {
	var in jsonImport
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	records := make([]Record, 0, len(in.Contacts))
	for i, c := range in.Contacts {
		records = append(records, Record{
			Name:  c.Name,
			Phone: deref(c.PhoneNumber),
			Email: deref(c.Email),
			Notes: deref(c.Notes),
			Line:  i + 1,
		})
	}
	return records, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
