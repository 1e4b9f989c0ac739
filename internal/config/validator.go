package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/commitscope/commitscope-go/internal/analysis"
	"github.com/commitscope/commitscope-go/internal/errors"
	"github.com/commitscope/commitscope-go/internal/models"
)

const dateLayout = "2006-01-02"

// ValidationResult holds validation results
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err))
	}
	return sb.String()
}

// Validate checks the full configuration before any fetch happens. A bad
// time range or an unresolvable repository aborts the run here, never
// mid-pipeline.
func Validate(cfg *Config) *ValidationResult {
	vr := &ValidationResult{Valid: true}

	if len(cfg.Repositories) == 0 {
		vr.AddError("at least one repository is required (--repo or config file)")
	}
	for _, repo := range cfg.Repositories {
		if _, err := models.ParseRepoRef(cfg.Organization, repo); err != nil {
			vr.AddError("%v", err)
		}
	}

	if cfg.GitHub.RateLimit <= 0 {
		vr.AddError("github.rate_limit must be positive, got %d", cfg.GitHub.RateLimit)
	}
	if cfg.GitHub.MaxConcurrency <= 0 {
		vr.AddError("github.max_concurrency must be positive, got %d", cfg.GitHub.MaxConcurrency)
	}

	for i, tr := range cfg.TimeRanges {
		if _, err := parseTimeRange(tr); err != nil {
			vr.AddError("time_ranges[%d] (%s): %v", i, tr.Name, err)
		}
	}

	return vr
}

// Windows converts the configured time ranges into analysis windows,
// preserving declaration order. Call Validate first; a malformed range here
// is a hard error.
func Windows(cfg *Config) ([]analysis.TimeWindow, error) {
	if len(cfg.TimeRanges) == 0 {
		return nil, nil
	}
	windows := make([]analysis.TimeWindow, 0, len(cfg.TimeRanges))
	for _, tr := range cfg.TimeRanges {
		w, err := parseTimeRange(tr)
		if err != nil {
			return nil, errors.ValidationErrorf("time range %q: %v", tr.Name, err)
		}
		windows = append(windows, w)
	}
	return windows, nil
}

func parseTimeRange(tr TimeRange) (analysis.TimeWindow, error) {
	if tr.Name == "" {
		return analysis.TimeWindow{}, fmt.Errorf("missing name")
	}
	start, err := time.ParseInLocation(dateLayout, tr.StartDate, time.UTC)
	if err != nil {
		return analysis.TimeWindow{}, fmt.Errorf("unparseable start_date %q", tr.StartDate)
	}
	end, err := time.ParseInLocation(dateLayout, tr.EndDate, time.UTC)
	if err != nil {
		return analysis.TimeWindow{}, fmt.Errorf("unparseable end_date %q", tr.EndDate)
	}
	if start.After(end) {
		return analysis.TimeWindow{}, fmt.Errorf("start_date %s is after end_date %s", tr.StartDate, tr.EndDate)
	}
	return analysis.TimeWindow{Name: tr.Name, Start: start, End: end}, nil
}
