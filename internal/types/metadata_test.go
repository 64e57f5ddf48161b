package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidate_Validate(t *testing.T) {
	tests := []struct {
		name          string
		titleLen      int
		descLen       int
		titleOK       bool
		descriptionOK bool
	}{
		{"both at minimum", 40, 140, true, true},
		{"both at maximum", 55, 155, true, true},
		{"title one short", 39, 140, false, true},
		{"title one long", 56, 140, false, true},
		{"description one short", 40, 139, true, false},
		{"description one long", 40, 156, true, false},
		{"both empty", 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Two-byte runes: byte counts would land far outside every bound.
			c := Candidate{
				Title:       strings.Repeat("é", tt.titleLen),
				Description: strings.Repeat("ü", tt.descLen),
			}
			assert.Equal(t, tt.titleLen, c.TitleLength())
			assert.Equal(t, tt.descLen, c.DescriptionLength())

			v := c.Validate()
			assert.Equal(t, tt.titleOK, v.TitleOK)
			assert.Equal(t, tt.descriptionOK, v.DescriptionOK)
			assert.Equal(t, tt.titleOK && tt.descriptionOK, v.Valid())
		})
	}
}

func TestCandidate_LengthCountsRunes(t *testing.T) {
	c := Candidate{Title: "日本語のタイトル", Description: "🙂🙂"}
	assert.Equal(t, 8, c.TitleLength())
	assert.Equal(t, 2, c.DescriptionLength())
}

func TestSuccessResult(t *testing.T) {
	c := Candidate{
		FocusKeyword: "café",
		Title:        strings.Repeat("é", 45),
		Description:  strings.Repeat("d", 150),
	}
	r := SuccessResult("https://example.com", c)

	assert.Equal(t, "https://example.com", r.URL)
	assert.Equal(t, c.Title, r.Title)
	assert.Equal(t, 45, r.TitleLength)
	assert.Equal(t, 150, r.DescriptionLength)
	assert.Equal(t, "café", r.FocusKeyword)
	assert.False(t, r.Error)
}

func TestErrorResult(t *testing.T) {
	r := ErrorResult("https://example.com", "upstream unavailable")

	assert.Equal(t, ErrorTitle, r.Title)
	assert.Equal(t, "upstream unavailable", r.Description)
	assert.Equal(t, "-", r.FocusKeyword)
	assert.Zero(t, r.TitleLength)
	assert.Zero(t, r.DescriptionLength)
	assert.True(t, r.Error)
}
