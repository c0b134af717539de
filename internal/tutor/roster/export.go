package roster

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/verlato/mathtutor/internal/tutor/models"
)

// truncate shortens s to at most max runes, marking the cut with an
// ellipsis. Cutting on rune boundaries keeps multi-byte text valid.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// StudentsDataset lays the student roster out for export, in store order.
func StudentsDataset(students []models.User) Dataset {
	rows := make([]map[string]string, 0, len(students))
	for _, s := range students {
		lastLogin := ""
		if s.LastLogin != nil {
			lastLogin = s.LastLogin.Format("2006-01-02 15:04")
		}
		rows = append(rows, map[string]string{
			"Name":       s.Name,
			"Username":   s.Username,
			"Logins":     fmt.Sprintf("%d", s.LoginCount),
			"Last Login": lastLogin,
		})
	}
	return Dataset{
		Headers: []string{"Name", "Username", "Logins", "Last Login"},
		Rows:    rows,
	}
}

// MistakesDataset lays a student's archive out for a report, most recently
// archived first (archive order).
func MistakesDataset(mistakes []models.Problem) Dataset {
	rows := make([]map[string]string, 0, len(mistakes))
	for _, p := range mistakes {
		archived := ""
		if p.Timestamp != nil {
			archived = p.Timestamp.Format("2006-01-02 15:04")
		}
		content := truncate(p.Content, 120)
		rows = append(rows, map[string]string{
			"Topic":      string(p.Topic),
			"Difficulty": p.Difficulty,
			"Archived":   archived,
			"Problem":    content,
		})
	}
	return Dataset{
		Headers: []string{"Topic", "Difficulty", "Archived", "Problem"},
		Rows:    rows,
	}
}

// RenderCSV produces CSV encoded bytes for the dataset.
func RenderCSV(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF creates a PDF document with an optional title and table body.
func RenderPDF(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
