package output

import (
	"encoding/json"
	"os"

	"github.com/commitscope/commitscope-go/internal/analysis"
	"github.com/commitscope/commitscope-go/internal/errors"
)

// WriteJSON serializes the full report to a file. Per-group occurrence
// detail is present whenever the run was detailed; timestamps marshal as
// RFC 3339.
func WriteJSON(report analysis.AnalysisReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.InternalErrorf("marshal report: %v", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.FileSystemErrorf(err, "write report to %s", path)
	}

	return nil
}
