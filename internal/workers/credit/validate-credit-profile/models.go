// internal/workers/credit/validate-credit-profile/models.go
package validatecreditprofile

import (
	"encoding/json"

	"credit-score-workers/internal/common/validation"
)

type Input struct {
	ApplicantID   string          `json:"applicantId"`
	Profile       json.RawMessage `json:"profile"`
	FailOnInvalid *bool           `json:"failOnInvalid,omitempty"`
}

type Output struct {
	ApplicantID      string                       `json:"applicantId"`
	IsValid          bool                         `json:"isValid"`
	ValidationErrors []validation.ValidationError `json:"validationErrors"`
}
