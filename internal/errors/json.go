package errors

import (
	"encoding/json"
)

// JSONOutput represents the JSON structure for diagnostic output
type JSONOutput struct {
	Status   string       `json:"status"`
	RunID    string       `json:"run_id,omitempty"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
	Summary  Summary      `json:"summary"`
}

// Summary contains diagnostic counts
type Summary struct {
	Generated    int `json:"generated"`
	Skipped      int `json:"skipped"`
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
	TotalCount   int `json:"total_count"`
}

// Split separates diagnostics into errors and warnings; info diagnostics are dropped
func Split(diags []Diagnostic) (errs, warnings []Diagnostic) {
	errs = []Diagnostic{}
	warnings = []Diagnostic{}
	for _, d := range diags {
		if d.IsError() {
			errs = append(errs, d)
		} else if d.IsWarning() {
			warnings = append(warnings, d)
		}
	}
	return errs, warnings
}

// FormatDiagnosticsAsJSON formats a pass outcome as JSON
func FormatDiagnosticsAsJSON(runID string, generated, skipped int, diags []Diagnostic) (string, error) {
	errorList, warningList := Split(diags)

	status := "success"
	if len(errorList) > 0 {
		status = "error"
	} else if len(warningList) > 0 {
		status = "warning"
	}

	output := JSONOutput{
		Status:   status,
		RunID:    runID,
		Errors:   errorList,
		Warnings: warningList,
		Summary: Summary{
			Generated:    generated,
			Skipped:      skipped,
			ErrorCount:   len(errorList),
			WarningCount: len(warningList),
			TotalCount:   len(diags),
		},
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
