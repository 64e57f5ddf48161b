// Package export renders result sets in the formats offered for download.
package export

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jackzampolin/metagen/internal/types"
)

// FileName is the suggested download name for a CSV export.
const FileName = "optimized_metadata.csv"

// TimestampedFileName returns FileName with t inserted before the
// extension, for exports kept side by side.
func TimestampedFileName(t time.Time) string {
	base := strings.TrimSuffix(FileName, ".csv")
	return base + "-" + t.Format("20060102-150405") + ".csv"
}

// ContentType is the media type of a CSV export.
const ContentType = "text/csv; charset=utf-8"

// Header is the fixed column row of the CSV contract.
var Header = []string{
	"Page URL",
	"Page Title",
	"Title Length",
	"Page Description",
	"Description Length",
	"Focus Keyword",
}

// CSV renders the successful results as CSV. Error results are skipped.
// Data fields are always double-quoted with embedded quotes doubled, rows are
// separated by "\n" and there is no trailing newline.
func CSV(results []types.Result) string {
	rows := make([]string, 0, len(results)+1)
	rows = append(rows, strings.Join(Header, ","))
	for _, r := range results {
		if r.Error {
			continue
		}
		rows = append(rows, row(r))
	}
	return strings.Join(rows, "\n")
}

// WriteCSV writes CSV(results) to w.
func WriteCSV(w io.Writer, results []types.Result) error {
	_, err := io.WriteString(w, CSV(results))
	return err
}

// Rows returns the number of data rows CSV would produce.
func Rows(results []types.Result) int {
	n := 0
	for _, r := range results {
		if !r.Error {
			n++
		}
	}
	return n
}

func row(r types.Result) string {
	fields := []string{
		r.URL,
		r.Title,
		strconv.Itoa(r.TitleLength),
		r.Description,
		strconv.Itoa(r.DescriptionLength),
		r.FocusKeyword,
	}
	for i, f := range fields {
		fields[i] = quote(f)
	}
	return strings.Join(fields, ",")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
