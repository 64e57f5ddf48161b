package metadata

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/jackzampolin/metagen/internal/providers"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// metadataJSON returns a model reply with fields of the given lengths.
func metadataJSON(keyword string, titleLen, descLen int) string {
	b, _ := json.Marshal(map[string]string{
		"focusKeyword": keyword,
		"title":        strings.Repeat("t", titleLen),
		"description":  strings.Repeat("d", descLen),
	})
	return string(b)
}

// userPrompt returns the user message of a recorded request.
func userPrompt(req providers.ChatRequest) string {
	for _, m := range req.Messages {
		if m.Role == "user" {
			return m.Content
		}
	}
	return ""
}

func newTestBatch(client providers.LLMClient) *Batch {
	gen, err := NewGenerator(GeneratorConfig{Client: client, Logger: discardLogger()})
	if err != nil {
		panic(err)
	}
	return NewBatch(gen, discardLogger())
}
