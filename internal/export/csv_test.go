package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/metagen/internal/types"
)

const header = "Page URL,Page Title,Title Length,Page Description,Description Length,Focus Keyword"

func TestCSV_SkipsErrorRows(t *testing.T) {
	results := []types.Result{
		{URL: "https://a.com", Title: "T", TitleLength: 1, Description: "D", DescriptionLength: 1, FocusKeyword: "k"},
		types.ErrorResult("https://b.com", "Failed to generate metadata after 3 attempts. Details: boom"),
	}

	got := CSV(results)
	assert.Equal(t, header+"\n"+`"https://a.com","T","1","D","1","k"`, got)
	assert.Equal(t, 1, Rows(results))
}

func TestCSV_EscapesQuotes(t *testing.T) {
	results := []types.Result{{
		URL:          "https://a.com/x,y",
		Title:        `Say "hi"`,
		Description:  "line one\nline two",
		FocusKeyword: `"k"`,
	}}

	got := CSV(results)
	assert.Equal(t, header+"\n"+`"https://a.com/x,y","Say ""hi""","0","line one`+"\n"+`line two","0","""k"""`, got)
}

func TestCSV_HeaderOnly(t *testing.T) {
	assert.Equal(t, header, CSV(nil))
	assert.Equal(t, header, CSV([]types.Result{types.ErrorResult("https://a.com", "x")}))
}

func TestCSV_NoTrailingNewline(t *testing.T) {
	c := types.Candidate{FocusKeyword: "k", Title: "Title", Description: "Desc"}
	got := CSV([]types.Result{
		types.SuccessResult("https://a.com", c),
		types.SuccessResult("https://b.com", c),
	})
	assert.NotEqual(t, byte('\n'), got[len(got)-1])
	assert.Equal(t, header+"\n"+
		`"https://a.com","Title","5","Desc","4","k"`+"\n"+
		`"https://b.com","Title","5","Desc","4","k"`, got)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, header, buf.String())
}

func TestTimestampedFileName(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "optimized_metadata-20260304-050607.csv", TimestampedFileName(ts))
}
