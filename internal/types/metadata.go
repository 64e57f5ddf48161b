// Package types provides shared types used across multiple packages.
// This package has no dependencies on other metagen packages to avoid import cycles.
package types

import "unicode/utf8"

// Length bounds for generated metadata, inclusive on both ends.
const (
	MinTitleLen       = 40
	MaxTitleLen       = 55
	MinDescriptionLen = 140
	MaxDescriptionLen = 155
)

// Candidate is one attempt's worth of generated metadata.
type Candidate struct {
	FocusKeyword string `json:"focusKeyword"`
	Title        string `json:"title"`
	Description  string `json:"description"`
}

// TitleLength returns the title length in characters.
func (c Candidate) TitleLength() int {
	return utf8.RuneCountInString(c.Title)
}

// DescriptionLength returns the description length in characters.
func (c Candidate) DescriptionLength() int {
	return utf8.RuneCountInString(c.Description)
}

// Validation reports which fields of a candidate satisfy their length bounds.
type Validation struct {
	TitleOK       bool
	DescriptionOK bool
}

// Valid reports whether both fields are within bounds.
func (v Validation) Valid() bool {
	return v.TitleOK && v.DescriptionOK
}

// Validate checks the candidate against the title and description bounds.
func (c Candidate) Validate() Validation {
	return Validation{
		TitleOK:       inRange(c.TitleLength(), MinTitleLen, MaxTitleLen),
		DescriptionOK: inRange(c.DescriptionLength(), MinDescriptionLen, MaxDescriptionLen),
	}
}

func inRange(n, lo, hi int) bool {
	return n >= lo && n <= hi
}

// Result is the final per-URL record handed to presentation surfaces.
type Result struct {
	URL               string `json:"url" yaml:"url"`
	Title             string `json:"title" yaml:"title"`
	TitleLength       int    `json:"titleLength" yaml:"title_length"`
	Description       string `json:"description" yaml:"description"`
	DescriptionLength int    `json:"descriptionLength" yaml:"description_length"`
	FocusKeyword      string `json:"focusKeyword" yaml:"focus_keyword"`
	Error             bool   `json:"error,omitempty" yaml:"error,omitempty"`
}

// ErrorTitle is the title placed on results whose generation failed.
const ErrorTitle = "Error processing URL"

// SuccessResult builds the record for a candidate that passed validation.
func SuccessResult(url string, c Candidate) Result {
	return Result{
		URL:               url,
		Title:             c.Title,
		TitleLength:       c.TitleLength(),
		Description:       c.Description,
		DescriptionLength: c.DescriptionLength(),
		FocusKeyword:      c.FocusKeyword,
	}
}

// ErrorResult builds the synthetic record for a URL whose generation failed.
func ErrorResult(url, message string) Result {
	return Result{
		URL:          url,
		Title:        ErrorTitle,
		Description:  message,
		FocusKeyword: "-",
		Error:        true,
	}
}
