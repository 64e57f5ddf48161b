package endpoints

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/metagen/internal/api"
	"github.com/jackzampolin/metagen/internal/export"
	"github.com/jackzampolin/metagen/internal/types"
)

// ExportRequest is the body for CSV export. When Results is set those
// records are exported as-is; otherwise the URLs are generated first.
type ExportRequest struct {
	GenerateRequest
	Results []types.Result `json:"results,omitempty"`
}

// ExportMetadataEndpoint handles POST /api/metadata/export.
type ExportMetadataEndpoint struct{}

func (e *ExportMetadataEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/metadata/export", e.handler
}

// RequiresInit is false because exporting supplied results needs no LLM.
func (e *ExportMetadataEndpoint) RequiresInit() bool { return false }

func (e *ExportMetadataEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := req.Results
	if len(results) == 0 {
		var (
			status int
			err    error
		)
		results, status, err = generate(r, req.URLList(), nil)
		if err != nil {
			writeError(w, status, err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	w.WriteHeader(http.StatusOK)
	export.WriteCSV(w, results)
}

func (e *ExportMetadataEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		file string
		out  string
	)
	cmd := &cobra.Command{
		Use:   "export [urls...]",
		Short: "Generate SEO metadata on the server and download it as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := api.ReadInput(args, file, os.Stdin)
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			data, err := client.PostRaw(cmd.Context(), "/api/metadata/export", ExportRequest{
				GenerateRequest: GenerateRequest{Text: text},
			})
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read URLs from file (- for stdin)")
	cmd.Flags().StringVar(&out, "out", export.FileName, "output path (- for stdout)")
	return cmd
}
