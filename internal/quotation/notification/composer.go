// internal/quotation/notification/composer.go
package notification

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/models"
)

const (
	ContentTypePDF  = "application/pdf"
	timestampLayout = "2006/01/02, 15:04:05"
)

// Attachment is a file carried by a message.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Message is a fully composed email, ready for any sender.
type Message struct {
	Audience    models.Audience
	To          []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

var errEmptyDocument = errors.New("proposal document is empty")

// AttachmentFilename is "{brand}-Proposal-{ref}.pdf" with spaces replaced.
func AttachmentFilename(brand, referenceNumber string) string {
	return strings.ReplaceAll(fmt.Sprintf("%s-Proposal-%s.pdf", brand, referenceNumber), " ", "-")
}

// Composer builds the client and internal messages. Its output depends only
// on the record, the PDF bytes and the configuration.
type Composer struct {
	cfg config.QuotationConfig
}

func NewComposer(cfg config.QuotationConfig) *Composer {
	return &Composer{cfg: cfg}
}

// ComposeClient builds the message sent to the submitter.
func (c *Composer) ComposeClient(record models.QuotationRecord, pdf []byte) (Message, error) {
	subject, err := RenderSubject(c.cfg.Notifications.ClientSubject, VarsFor(record))
	if err != nil {
		return Message{}, err
	}

	co := c.cfg.Company
	view := clientView{
		Brand:           co.Name,
		Tagline:         co.Tagline,
		Contact:         record.Contact(),
		ProjectCategory: record.ProjectCategory,
		ReferenceNumber: record.ReferenceNumber,
		MeetingLink:     c.cfg.Meetings.DefaultLink,
		Email:           co.Email,
		Phone:           co.Phone,
		Website:         co.Website,
		Year:            record.SubmissionDate.Year(),
	}

	return c.message(models.AudienceClient, []string{record.Email}, subject, clientTemplate, view, record, pdf)
}

// ComposeInternal builds the notification for the internal recipients.
func (c *Composer) ComposeInternal(record models.QuotationRecord, pdf []byte) (Message, error) {
	subject, err := RenderSubject(c.cfg.Notifications.InternalSubject, VarsFor(record))
	if err != nil {
		return Message{}, err
	}

	submitted := record.SubmissionDate.Format(timestampLayout)
	view := internalView{
		Brand:           c.cfg.Company.Name,
		ReferenceNumber: record.ReferenceNumber,
		SubmittedAt:     submitted,
		FullName:        record.FullName,
		CompanyName:     record.CompanyName,
		Email:           record.Email,
		Phone:           record.Phone,
		Address:         record.Address,
		VATNumber:       record.VATNumber,
		ContactPerson:   record.ContactPerson,
		ProjectCategory: record.ProjectCategory,
		ServiceType:     c.cfg.ServiceTypeLabel(string(record.ServiceType)),
		Timeline:        c.cfg.TimelineLabel(record.Timeline),
		BudgetRange:     record.BudgetRange,
		OtherCategory:   record.OtherCategory,
		Description:     record.ProjectDescription,
		ReferralSource:  record.ReferralSource,
		MeetingLink:     c.cfg.Meetings.DefaultLink,
		FollowUpDays:    c.cfg.Notifications.FollowUpDays,
		GeneratedAt:     submitted,
	}

	to := append([]string(nil), c.cfg.Notifications.InternalRecipients...)
	return c.message(models.AudienceInternal, to, subject, internalTemplate, view, record, pdf)
}

func (c *Composer) message(audience models.Audience, to []string, subject string, tmpl *template.Template, view interface{}, record models.QuotationRecord, pdf []byte) (Message, error) {
	if len(pdf) == 0 {
		return Message{}, errEmptyDocument
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, view); err != nil {
		return Message{}, fmt.Errorf("render %s body: %w", audience, err)
	}
	htmlBody := body.String()

	return Message{
		Audience: audience,
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: HTMLToText(htmlBody),
		Attachments: []Attachment{{
			Filename:    AttachmentFilename(c.cfg.Company.Name, record.ReferenceNumber),
			Content:     pdf,
			ContentType: ContentTypePDF,
		}},
	}, nil
}
