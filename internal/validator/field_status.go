package validator

import (
	"nfextract/internal/domain"
)

// FieldStatus represents the computed validation state for a single field path.
type FieldStatus struct {
	Status   domain.FieldValidationStatus `json:"status"`
	Messages []string                     `json:"messages"`
}

// ComputeFieldStatuses groups results by field path. A failed error rule
// makes the field invalid; a failed warning rule makes it unsure unless it is
// already invalid.
func ComputeFieldStatuses(results []ResultEntry) map[string]*FieldStatus {
	statuses := make(map[string]*FieldStatus)
	for _, r := range results {
		fs, ok := statuses[r.FieldPath]
		if !ok {
			fs = &FieldStatus{Status: domain.FieldStatusValid, Messages: []string{}}
			statuses[r.FieldPath] = fs
		}
		if r.Passed {
			continue
		}
		if r.Severity == domain.ValidationSeverityError {
			fs.Status = domain.FieldStatusInvalid
		} else if fs.Status != domain.FieldStatusInvalid {
			fs.Status = domain.FieldStatusUnsure
		}
		fs.Messages = append(fs.Messages, r.Message)
	}
	return statuses
}
