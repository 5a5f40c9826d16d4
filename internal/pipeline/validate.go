package pipeline

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/internal/textutil"
)

// Validate checks that every required field is present and well formed,
// and that contact fields carry a valid format whenever they are present
// at all. Failure is permanent; a record that fails validation is never
// retried. Unknown field names fail closed.
func Validate(lead model.Lead, required []string) error {
	var missing []string
	for _, field := range required {
		if !fieldValid(lead, field) {
			missing = append(missing, field)
		}
	}

	// Format rechecks apply to any populated contact field, required
	// or not.
	if lead.Email != "" && !contains(required, "email") && !textutil.ValidateEmail(lead.Email) {
		missing = append(missing, "email")
	}
	if lead.Phone != "" && !contains(required, "phone") && !textutil.ValidPhoneDigitCount(textutil.PhoneDigits(lead.Phone)) {
		missing = append(missing, "phone")
	}
	if lead.Website != "" && !contains(required, "website") && !textutil.ValidateURL(lead.Website) {
		missing = append(missing, "website")
	}

	if len(missing) > 0 {
		return resilience.NewPermanentError(eris.Errorf(
			"pipeline: lead %s failed validation, missing or invalid: %s",
			lead.Website, strings.Join(missing, ", "),
		))
	}
	return nil
}

// fieldValid applies the per-field check: presence for most fields,
// format validation for the contact fields.
func fieldValid(lead model.Lead, field string) bool {
	switch field {
	case "website":
		return textutil.ValidateURL(lead.Website)
	case "email":
		return textutil.ValidateEmail(lead.Email)
	case "phone":
		return textutil.ValidPhoneDigitCount(textutil.PhoneDigits(lead.Phone))
	default:
		return lead.Flatten()[field] != ""
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
