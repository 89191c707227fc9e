package notification

import (
	"fmt"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/models"
)

// TemplateVars is the closed set of values a subject template may use.
type TemplateVars struct {
	ReferenceNumber string
	ProjectCategory string
	CompanyName     string
	FullName        string
	ContactPerson   string
}

// VarsFor builds the subject variables for a record. ContactPerson falls
// back to the submitter's name.
func VarsFor(record models.QuotationRecord) TemplateVars {
	return TemplateVars{
		ReferenceNumber: record.ReferenceNumber,
		ProjectCategory: record.ProjectCategory,
		CompanyName:     record.CompanyName,
		FullName:        record.FullName,
		ContactPerson:   record.Contact(),
	}
}

func (v TemplateVars) lookup(name string) (string, bool) {
	switch name {
	case "referenceNumber":
		return v.ReferenceNumber, true
	case "projectCategory":
		return v.ProjectCategory, true
	case "companyName":
		return v.CompanyName, true
	case "fullName":
		return v.FullName, true
	case "contactPerson":
		return v.ContactPerson, true
	}
	return "", false
}

// CheckTemplate reports whether tmpl only references known placeholders.
func CheckTemplate(tmpl string) error {
	return config.CheckSubjectTemplate(tmpl)
}

// RenderSubject substitutes every {{name}} in tmpl. Unknown names are an
// error rather than being left in the output.
func RenderSubject(tmpl string, vars TemplateVars) (string, error) {
	var unknown string
	out := config.PlaceholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := config.PlaceholderPattern.FindStringSubmatch(m)[1]
		v, ok := vars.lookup(name)
		if !ok && unknown == "" {
			unknown = name
		}
		return v
	})
	if unknown != "" {
		return "", fmt.Errorf("subject template: unknown placeholder {{%s}}", unknown)
	}
	return out, nil
}
