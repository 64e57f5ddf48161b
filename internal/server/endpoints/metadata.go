package endpoints

import (
	"errors"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/metagen/internal/api"
	"github.com/jackzampolin/metagen/internal/metadata"
	"github.com/jackzampolin/metagen/internal/metrics"
	"github.com/jackzampolin/metagen/internal/types"
	"github.com/jackzampolin/metagen/internal/urls"
)

// GenerateRequest is the body for metadata generation. Text is free-form
// input split on newlines and commas; URLs is an already split list. Both
// may be set, in which case Text entries come first.
type GenerateRequest struct {
	Text string   `json:"text,omitempty"`
	URLs []string `json:"urls,omitempty"`
}

// URLList returns the valid URLs in the request, in input order.
func (req GenerateRequest) URLList() []string {
	list := urls.Parse(req.Text)
	return append(list, urls.ParseList(req.URLs)...)
}

// GenerateResponse is the response for metadata generation.
type GenerateResponse struct {
	Results   []types.Result   `json:"results"`
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Usage     *metrics.Summary `json:"usage,omitempty"`
}

func newGenerateResponse(results []types.Result, usage *metrics.Summary) GenerateResponse {
	resp := GenerateResponse{Results: results, Total: len(results), Usage: usage}
	for _, r := range results {
		if r.Error {
			resp.Failed++
		} else {
			resp.Succeeded++
		}
	}
	return resp
}

// GenerateMetadataEndpoint handles POST /api/metadata.
type GenerateMetadataEndpoint struct{}

func (e *GenerateMetadataEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/metadata", e.handler
}

func (e *GenerateMetadataEndpoint) RequiresInit() bool { return true }

func (e *GenerateMetadataEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec := metrics.NewRecorder()
	results, status, err := generate(r, req.URLList(), rec)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	usage := rec.Summary(metrics.Filter{})
	writeJSON(w, http.StatusOK, newGenerateResponse(results, &usage))
}

// generate runs a batch for list and maps failures to HTTP status codes.
func generate(r *http.Request, list []string, rec *metrics.Recorder) ([]types.Result, int, error) {
	if len(list) == 0 {
		return nil, http.StatusBadRequest, metadata.ErrNoURLs
	}

	batch, err := batchFrom(r.Context(), rec)
	if err != nil {
		return nil, http.StatusServiceUnavailable, err
	}

	results, err := batch.Run(r.Context(), list)
	if err != nil {
		if errors.Is(err, metadata.ErrNoURLs) {
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusInternalServerError, err
	}
	return results, http.StatusOK, nil
}

func (e *GenerateMetadataEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "generate [urls...]",
		Short: "Generate SEO metadata on the server",
		Long: `Generate SEO metadata for a batch of URLs on the running server.

URLs come from positional arguments, --file, or stdin. Entries may be
separated by newlines or commas; invalid entries are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := api.ReadInput(args, file, os.Stdin)
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var resp GenerateResponse
			if err := client.Post(cmd.Context(), "/api/metadata", GenerateRequest{Text: text}, &resp); err != nil {
				return err
			}
			return api.OutputResultsTo(cmd.OutOrStdout(), api.GetOutputFormat(), resp.Results)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read URLs from file (- for stdin)")
	return cmd
}
