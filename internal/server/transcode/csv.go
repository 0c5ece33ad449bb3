package transcode

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	csvHeader = "Name,Phone,Email,Notes"
	utf8BOM   = "\xef\xbb\xbf"
)

var csvQuoter = strings.NewReplacer(`"`, `""`)

// WriteCSV writes the header and one fully quoted line per record.
func WriteCSV(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(csvHeader + "\n"); err != nil {
		return err
	}
	for _, r := range records {
		fields := [...]string{r.Name, r.Phone, r.Email, r.Notes}
		for i, f := range fields {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteByte('"')
			csvQuoter.WriteString(bw, f)
			bw.WriteByte('"')
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadCSV parses an uploaded CSV file. The first record is a header and is
// skipped; blank records are ignored; fields are trimmed and mapped by
// position. Each record carries the line it starts on.
func ReadCSV(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == utf8BOM {
		_, _ = br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records := make([]Record, 0)
	header := true
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if header {
			header = false
			continue
		}

		rec := recordFromFields(row)
		if rec == (Record{}) {
			continue
		}
		rec.Line, _ = cr.FieldPos(0)
		records = append(records, rec)
	}

	return records, nil
}

func recordFromFields(row []string) Record {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return Record{Name: get(0), Phone: get(1), Email: get(2), Notes: get(3)}
}
