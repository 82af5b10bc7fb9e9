// utils/validator.go - Input validation
package utils

import (
	"strings"
	"time"

	"certificate-management-api/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// RegisterValidations attaches the cross-field date rules to gin's validator
// engine: a batch must not end before it starts, and a certificate's due date
// must be after its issue date. Field-level format checks stay in the
// binding tags.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterStructValidation(batchDatesValidation, models.BatchCreateRequest{})
	v.RegisterStructValidation(certificateDatesValidation, models.CertificateCreateRequest{})
}

func batchDatesValidation(sl validator.StructLevel) {
	req := sl.Current().Interface().(models.BatchCreateRequest)

	start, err1 := time.Parse(dateLayout, req.StartDate)
	end, err2 := time.Parse(dateLayout, req.EndDate)
	if err1 != nil || err2 != nil {
		return // datetime tags report the format error
	}

	if end.Before(start) {
		sl.ReportError(req.EndDate, "end_date", "EndDate", "gtefield", "start_date")
	}
}

func certificateDatesValidation(sl validator.StructLevel) {
	req := sl.Current().Interface().(models.CertificateCreateRequest)

	issue, err1 := time.Parse(dateLayout, req.IssueDate)
	due, err2 := time.Parse(dateLayout, req.DueDate)
	if err1 != nil || err2 != nil {
		return
	}

	if !due.After(issue) {
		sl.ReportError(req.DueDate, "due_date", "DueDate", "gtfield", "issue_date")
	}
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
