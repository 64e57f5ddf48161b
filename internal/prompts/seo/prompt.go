// Package seo holds the prompts and response schema for SEO metadata
// generation.
package seo

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/jackzampolin/metagen/internal/types"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed initial.tmpl
var initialPromptTmpl string

//go:embed correction.tmpl
var correctionPromptTmpl string

var (
	initialTemplate    = template.Must(template.New("initial").Parse(initialPromptTmpl))
	correctionTemplate = template.Must(template.New("correction").Parse(correctionPromptTmpl))
)

// Kind distinguishes a first-pass prompt from a corrective one.
type Kind string

const (
	KindInitial    Kind = "initial"
	KindCorrection Kind = "correction"
)

// Prompt is the request text for one generation attempt.
type Prompt struct {
	Kind   Kind
	URL    string
	System string
	User   string
}

// templateData returns the values every template can reference.
func templateData(url string) map[string]any {
	return map[string]any{
		"URL":            url,
		"MinTitle":       types.MinTitleLen,
		"MaxTitle":       types.MaxTitleLen,
		"MinDescription": types.MinDescriptionLen,
		"MaxDescription": types.MaxDescriptionLen,
	}
}

// SystemPrompt returns the system prompt shared by every attempt.
func SystemPrompt() string {
	return systemPrompt
}

// Build returns the prompt for the given attempt. Attempt 0, or any attempt
// without a previous candidate, gets the initial prompt; later attempts get
// field-scoped correction feedback on previous.
func Build(url string, attempt int, previous *types.Candidate) (Prompt, error) {
	data := templateData(url)
	if attempt == 0 || previous == nil {
		user, err := render(initialTemplate, data)
		if err != nil {
			return Prompt{}, err
		}
		return Prompt{Kind: KindInitial, URL: url, System: systemPrompt, User: user}, nil
	}

	v := previous.Validate()
	data["FocusKeyword"] = previous.FocusKeyword
	data["Title"] = previous.Title
	data["TitleLength"] = previous.TitleLength()
	data["TitleOK"] = v.TitleOK
	data["Description"] = previous.Description
	data["DescriptionLength"] = previous.DescriptionLength()
	data["DescriptionOK"] = v.DescriptionOK

	user, err := render(correctionTemplate, data)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{Kind: KindCorrection, URL: url, System: systemPrompt, User: user}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}
