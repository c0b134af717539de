// Package roster handles the tabular batch-import/export surface of the
// coach dashboard: CSV roster parsing, roster export, and PDF study reports.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/verlato/mathtutor/internal/shared"
	"github.com/verlato/mathtutor/internal/tutor/stores/accounts"
)

// Column header synonyms, matched case-insensitively. Either synonym of a
// column is accepted.
var (
	nameHeaders     = []string{"name", "student"}
	usernameHeaders = []string{"username", "login"}
)

func findColumn(headers []string, synonyms []string) int {
	for i, h := range headers {
		for _, s := range synonyms {
			if strings.EqualFold(strings.TrimSpace(h), s) {
				return i
			}
		}
	}
	return -1
}

// ParseRoster reads tabular records with at minimum a display name and a
// login identifier per row. Rows missing either field are rejected and
// counted, not fatal. A missing required column fails the whole import with
// a validation error.
func ParseRoster(r io.Reader) ([]accounts.RosterEntry, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading header row: %v", shared.ErrorValidation, err)
	}

	nameCol := findColumn(headers, nameHeaders)
	usernameCol := findColumn(headers, usernameHeaders)
	if nameCol < 0 || usernameCol < 0 {
		return nil, 0, fmt.Errorf("%w: roster needs %v and %v columns", shared.ErrorValidation, nameHeaders, usernameHeaders)
	}

	var entries []accounts.RosterEntry
	rejected := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rejected++
			continue
		}
		if nameCol >= len(record) || usernameCol >= len(record) {
			rejected++
			continue
		}
		name := strings.TrimSpace(record[nameCol])
		username := strings.TrimSpace(record[usernameCol])
		if name == "" || username == "" {
			rejected++
			continue
		}
		entries = append(entries, accounts.RosterEntry{Name: name, Username: username})
	}

	return entries, rejected, nil
}
