// internal/common/config/quotation.go
package config

import (
	"fmt"
	"regexp"
	"strings"

	"quotation-workers/internal/common/validation"
)

// QuotationConfig is the static configuration consumed by the reference
// generator, the document composer and the notification composer.
type QuotationConfig struct {
	Company       CompanyConfig      `mapstructure:"company"`
	Meetings      MeetingConfig      `mapstructure:"meetings"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	PDF           PDFConfig          `mapstructure:"pdf"`
	Options       OptionsConfig      `mapstructure:"options"`
	Phases        []PhaseConfig      `mapstructure:"phases"`
	Terms         TermsConfig        `mapstructure:"terms"`
	Reference     ReferenceConfig    `mapstructure:"reference"`
	Validation    ValidationConfig   `mapstructure:"validation"`
	Features      FeatureConfig      `mapstructure:"features"`
	RateLimit     RateLimitConfig    `mapstructure:"rate_limit"`
}

type CompanyConfig struct {
	Name         string             `mapstructure:"name"`
	Tagline      string             `mapstructure:"tagline"`
	Email        string             `mapstructure:"email"`
	Phone        string             `mapstructure:"phone"`
	Website      string             `mapstructure:"website"`
	Address      AddressConfig      `mapstructure:"address"`
	Registration RegistrationConfig `mapstructure:"registration"`
}

type AddressConfig struct {
	Street     string `mapstructure:"street"`
	Area       string `mapstructure:"area"`
	City       string `mapstructure:"city"`
	PostalCode string `mapstructure:"postal_code"`
	Country    string `mapstructure:"country"`
}

type RegistrationConfig struct {
	Number    string `mapstructure:"number"`
	VATNumber string `mapstructure:"vat_number"`
	BEELevel  string `mapstructure:"bee_level"`
}

type MeetingConfig struct {
	DefaultLink      string            `mapstructure:"default_link"`
	AlternativeLinks map[string]string `mapstructure:"alternative_links"`
	Duration         string            `mapstructure:"duration"`
	Availability     string            `mapstructure:"availability"`
}

// NotificationConfig holds recipients and subject templates for the two
// submission emails.
type NotificationConfig struct {
	InternalRecipients []string `mapstructure:"internal_recipients"`
	ClientSubject      string   `mapstructure:"client_subject"`
	InternalSubject    string   `mapstructure:"internal_subject"`
	FollowUpDays       int      `mapstructure:"follow_up_days"`
}

type PDFConfig struct {
	Branding      BrandingConfig `mapstructure:"branding"`
	Margins       MarginConfig   `mapstructure:"margins"`
	MeetingQRCode bool           `mapstructure:"meeting_qr_code"`
}

// BrandingConfig holds hex colours such as "#2563eb".
type BrandingConfig struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
}

// MarginConfig is expressed in millimetres.
type MarginConfig struct {
	Top    float64 `mapstructure:"top"`
	Bottom float64 `mapstructure:"bottom"`
	Left   float64 `mapstructure:"left"`
	Right  float64 `mapstructure:"right"`
}

type OptionsConfig struct {
	ProjectCategories []string       `mapstructure:"project_categories"`
	Timelines         []LabeledValue `mapstructure:"timelines"`
	BudgetRanges      []string       `mapstructure:"budget_ranges"`
	ServiceTypes      []LabeledValue `mapstructure:"service_types"`
}

type LabeledValue struct {
	Value       string `mapstructure:"value"`
	Label       string `mapstructure:"label"`
	Description string `mapstructure:"description"`
}

type PhaseConfig struct {
	Phase       int    `mapstructure:"phase"`
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
}

type TermsConfig struct {
	QuotationValidityDays int               `mapstructure:"quotation_validity_days"`
	OneTime               OneTimeTerms      `mapstructure:"one_time"`
	SaaS                  SubscriptionTerms `mapstructure:"saas"`
}

// OneTimeTerms are payment percentages; they must sum to 100.
type OneTimeTerms struct {
	Deposit   int `mapstructure:"deposit"`
	Milestone int `mapstructure:"milestone"`
	Final     int `mapstructure:"final"`
}

type SubscriptionTerms struct {
	Setup   string `mapstructure:"setup"`
	Monthly string `mapstructure:"monthly"`
	Annual  string `mapstructure:"annual"`
}

type ReferenceConfig struct {
	Prefix         string `mapstructure:"prefix"`
	MaxAttempts    int    `mapstructure:"max_attempts"`
	ReservationTTL int    `mapstructure:"reservation_ttl"` // hours
}

type ValidationConfig struct {
	MinNameLength        int `mapstructure:"min_name_length"`
	MinDescriptionLength int `mapstructure:"min_description_length"`
	MinPhoneLength       int `mapstructure:"min_phone_length"`
	MinAddressLength     int `mapstructure:"min_address_length"`
}

type FeatureConfig struct {
	EnablePDFDownload  bool `mapstructure:"enable_pdf_download"`
	EnableRateLimiting bool `mapstructure:"enable_rate_limiting"`
	EnableAnalytics    bool `mapstructure:"enable_analytics"`
}

type RateLimitConfig struct {
	MaxPerHour int `mapstructure:"max_per_hour"`
	MaxPerDay  int `mapstructure:"max_per_day"`
}

var hexColour = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// SubjectPlaceholders are the names a subject template may reference.
var SubjectPlaceholders = []string{"referenceNumber", "projectCategory", "companyName", "fullName", "contactPerson"}

// PlaceholderPattern matches {{name}} with optional inner spaces.
var PlaceholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]*)\s*\}\}`)

// CheckSubjectTemplate rejects templates that reference unknown placeholders.
func CheckSubjectTemplate(tmpl string) error {
	for _, m := range PlaceholderPattern.FindAllStringSubmatch(tmpl, -1) {
		known := false
		for _, name := range SubjectPlaceholders {
			if m[1] == name {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown placeholder {{%s}}", m[1])
		}
	}
	return nil
}

// DefaultQuotationConfig returns the VXN-NEXIA configuration.
func DefaultQuotationConfig() QuotationConfig {
	return QuotationConfig{
		Company: CompanyConfig{
			Name:    "VXN-NEXIA",
			Tagline: "Innovative Software Solutions",
			Email:   "info@vxn-nexia.com",
			Phone:   "+27 (0)11 123 4567",
			Website: "www.vxn-nexia.com",
			Address: AddressConfig{
				Street:     "123 Innovation Drive",
				Area:       "Sandton",
				City:       "Johannesburg",
				PostalCode: "2196",
				Country:    "South Africa",
			},
			Registration: RegistrationConfig{
				Number:    "REG123456789",
				VATNumber: "VAT987654321",
				BEELevel:  "Level 2 BEE Company",
			},
		},
		Meetings: MeetingConfig{
			DefaultLink: "https://teams.microsoft.com/l/meetup-join/19%3ameeting_default_link",
			AlternativeLinks: map[string]string{
				"zoom":     "https://zoom.us/j/vxn-nexia-consultation",
				"calendly": "https://calendly.com/vxn-nexia/consultation",
			},
			Duration:     "60 minutes",
			Availability: "Monday to Friday, 9:00 AM - 5:00 PM (SAST)",
		},
		Notifications: NotificationConfig{
			InternalRecipients: []string{"info@vxn-nexia.com", "admin@vxn-nexia.com"},
			ClientSubject:      "Your VXN-NEXIA Consultation Proposal - {{referenceNumber}}",
			InternalSubject:    "New Quotation Request - {{projectCategory}} - {{companyName}}",
			FollowUpDays:       3,
		},
		PDF: PDFConfig{
			Branding: BrandingConfig{
				Primary:   "#2563eb",
				Secondary: "#1e40af",
				Accent:    "#f59e0b",
				Text:      "#1f2937",
				Muted:     "#6b7280",
			},
			Margins:       MarginConfig{Top: 40, Bottom: 40, Left: 40, Right: 40},
			MeetingQRCode: true,
		},
		Options: OptionsConfig{
			ProjectCategories: []string{
				"Web Development",
				"Mobile App Development (iOS/Android)",
				"UI/UX Design",
				"E-commerce Solutions",
				"Custom Software Development",
				"System Integration",
				"Cloud Solutions & Hosting",
				"API Development",
				"Progressive Web Apps (PWA)",
				"Project Revival/Refactoring",
				"Other",
			},
			Timelines: []LabeledValue{
				{Value: "urgent", Label: "Urgent - 1-2 months"},
				{Value: "standard", Label: "Standard - 3-4 months"},
				{Value: "flexible", Label: "Flexible - 5+ months"},
			},
			BudgetRanges: []string{"Under R100k", "R100k-R250k", "R250k-R500k", "R500k+", "Not Sure"},
			ServiceTypes: []LabeledValue{
				{Value: "one-time", Label: "One-time Project", Description: "Complete project delivery with handover"},
				{Value: "saas", Label: "Software as a Service (SaaS)", Description: "Ongoing service with monthly subscription"},
			},
		},
		Phases: []PhaseConfig{
			{Phase: 1, Title: "Requirement Analysis & Planning", Description: "Detailed analysis of project requirements and strategic planning"},
			{Phase: 2, Title: "System Architecture & Design", Description: "Technical architecture design and user interface planning"},
			{Phase: 3, Title: "Development & Feature Implementation", Description: "Core development and feature implementation"},
			{Phase: 4, Title: "Testing & Quality Assurance", Description: "Comprehensive testing and quality assurance processes"},
			{Phase: 5, Title: "Deployment & Training", Description: "System deployment and user training"},
			{Phase: 6, Title: "Ongoing Support & Maintenance", Description: "Continuous support and maintenance services"},
		},
		Terms: TermsConfig{
			QuotationValidityDays: 30,
			OneTime:               OneTimeTerms{Deposit: 50, Milestone: 25, Final: 25},
			SaaS: SubscriptionTerms{
				Setup:   "One-time setup fee",
				Monthly: "Monthly subscription",
				Annual:  "Annual subscription (10% discount)",
			},
		},
		Reference: ReferenceConfig{
			Prefix:         "VXN",
			MaxAttempts:    5,
			ReservationTTL: 24 * 366,
		},
		Validation: ValidationConfig{
			MinNameLength:        2,
			MinDescriptionLength: 50,
			MinPhoneLength:       10,
			MinAddressLength:     10,
		},
		Features: FeatureConfig{
			EnablePDFDownload: true,
		},
		RateLimit: RateLimitConfig{
			MaxPerHour: 5,
			MaxPerDay:  10,
		},
	}
}

// Validate checks the invariants the composers rely on.
func (q QuotationConfig) Validate() error {
	if strings.TrimSpace(q.Reference.Prefix) == "" {
		return fmt.Errorf("quotation.reference.prefix is required")
	}
	if strings.Contains(q.Reference.Prefix, "-") {
		return fmt.Errorf("quotation.reference.prefix must not contain '-'")
	}
	if q.Company.Name == "" {
		return fmt.Errorf("quotation.company.name is required")
	}
	if q.Notifications.ClientSubject == "" || q.Notifications.InternalSubject == "" {
		return fmt.Errorf("quotation.notifications subjects are required")
	}
	if err := CheckSubjectTemplate(q.Notifications.ClientSubject); err != nil {
		return fmt.Errorf("quotation.notifications.client_subject: %w", err)
	}
	if err := CheckSubjectTemplate(q.Notifications.InternalSubject); err != nil {
		return fmt.Errorf("quotation.notifications.internal_subject: %w", err)
	}
	if len(q.Notifications.InternalRecipients) == 0 {
		return fmt.Errorf("quotation.notifications.internal_recipients must not be empty")
	}
	for _, r := range q.Notifications.InternalRecipients {
		if !validation.ValidateEmail(r) {
			return fmt.Errorf("quotation.notifications.internal_recipients: invalid address %q", r)
		}
	}
	if link := q.Meetings.DefaultLink; link != "" && !validation.ValidateURL(link) {
		return fmt.Errorf("quotation.meetings.default_link is not a valid URL: %q", link)
	}
	if sum := q.Terms.OneTime.Deposit + q.Terms.OneTime.Milestone + q.Terms.OneTime.Final; sum != 100 {
		return fmt.Errorf("quotation.terms.one_time percentages must sum to 100, got %d", sum)
	}
	if q.Terms.SaaS.Setup == "" || q.Terms.SaaS.Monthly == "" || q.Terms.SaaS.Annual == "" {
		return fmt.Errorf("quotation.terms.saas labels are required")
	}
	if len(q.Options.Timelines) == 0 {
		return fmt.Errorf("quotation.options.timelines must not be empty")
	}
	if len(q.Phases) == 0 {
		return fmt.Errorf("quotation.phases must not be empty")
	}
	for name, c := range map[string]string{
		"primary": q.PDF.Branding.Primary,
		"text":    q.PDF.Branding.Text,
		"muted":   q.PDF.Branding.Muted,
	} {
		if !hexColour.MatchString(c) {
			return fmt.Errorf("quotation.pdf.branding.%s must be a #rrggbb colour, got %q", name, c)
		}
	}
	m := q.PDF.Margins
	if m.Top < 0 || m.Bottom < 0 || m.Left < 0 || m.Right < 0 {
		return fmt.Errorf("quotation.pdf.margins must not be negative")
	}
	// A4 is 210x297mm; leave room for at least one title block.
	if m.Left+m.Right >= 180 || m.Top+m.Bottom >= 260 {
		return fmt.Errorf("quotation.pdf.margins leave no printable area")
	}
	return nil
}

// TimelineLabel resolves a timeline value to its label, falling back to the value.
func (q QuotationConfig) TimelineLabel(value string) string {
	for _, t := range q.Options.Timelines {
		if t.Value == value {
			return t.Label
		}
	}
	return value
}

// ServiceTypeLabel resolves a service type value to its configured label.
func (q QuotationConfig) ServiceTypeLabel(value string) string {
	for _, s := range q.Options.ServiceTypes {
		if s.Value == value {
			return s.Label
		}
	}
	return value
}

// TimelineValues lists the accepted timeline values.
func (q QuotationConfig) TimelineValues() []string {
	out := make([]string, 0, len(q.Options.Timelines))
	for _, t := range q.Options.Timelines {
		out = append(out, t.Value)
	}
	return out
}

// FullAddress renders "street, area, city postalCode".
func (a AddressConfig) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", a.Street, a.Area, a.City, a.PostalCode)
}
