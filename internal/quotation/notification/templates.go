package notification

import "html/template"

type clientView struct {
	Brand           string
	Tagline         string
	Contact         string
	ProjectCategory string
	ReferenceNumber string
	MeetingLink     string
	Email           string
	Phone           string
	Website         string
	Year            int
}

type internalView struct {
	Brand           string
	ReferenceNumber string
	SubmittedAt     string
	FullName        string
	CompanyName     string
	Email           string
	Phone           string
	Address         string
	VATNumber       string
	ContactPerson   string
	ProjectCategory string
	ServiceType     string
	Timeline        string
	BudgetRange     string
	OtherCategory   string
	Description     string
	ReferralSource  string
	MeetingLink     string
	FollowUpDays    int
	GeneratedAt     string
}

var clientTemplate = template.Must(template.New("client").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Your {{.Brand}} Consultation Proposal</title>
</head>
<body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f8f9fa;">
<div style="background-color: #ffffff; padding: 30px; border-radius: 10px;">
  <div style="text-align: center; margin-bottom: 30px; padding-bottom: 20px; border-bottom: 2px solid #2563eb;">
    <div style="font-size: 28px; font-weight: bold; color: #2563eb; margin-bottom: 10px;">{{.Brand}}</div>
    <div style="color: #6b7280; font-size: 14px;">{{.Tagline}}</div>
  </div>

  <h2>Dear {{.Contact}},</h2>
  <p>Thank you for your interest in {{.Brand}}!</p>
  <p>We're excited to discuss your <strong>{{.ProjectCategory}}</strong> project. Attached is your initial consultation proposal.</p>

  <div style="background-color: #eff6ff; border: 1px solid #2563eb; padding: 10px; border-radius: 5px; font-family: monospace; font-weight: bold; color: #2563eb; text-align: center; margin: 15px 0;">
    Reference Number: {{.ReferenceNumber}}
  </div>

  <div style="background-color: #2563eb; color: #ffffff; padding: 25px; border-radius: 8px; margin: 25px 0; text-align: center;">
    <h3 style="margin-top: 0;">NEXT STEP: Schedule Your Consultation</h3>
    <p>Click the button below to join our Teams meeting:</p>
    <a href="{{.MeetingLink}}" style="display: inline-block; background-color: #f59e0b; color: #ffffff; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; margin: 15px 0; font-size: 16px;">Join Teams Meeting</a>
    <p style="font-size: 14px; margin-top: 15px;">Or copy this link:<br>
      <span style="word-break: break-all; font-family: monospace;">{{.MeetingLink}}</span>
    </p>
  </div>

  <p>During this consultation, we'll discuss your project in detail and provide a comprehensive quotation tailored to your specific needs.</p>

  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h4 style="margin-top: 0; color: #2563eb;">If you have any questions before the meeting:</h4>
    <div>Email: {{.Email}}</div>
    <div>Phone: {{.Phone}}</div>
    <div>Website: {{.Website}}</div>
  </div>

  <p>We look forward to speaking with you!</p>
  <p><strong>Best regards,<br>The {{.Brand}} Team</strong></p>

  <div style="text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb; color: #6b7280; font-size: 12px;">
    <p>This email was sent from {{.Brand}}. Please do not reply to this automated message.</p>
    <p>&copy; {{.Year}} {{.Brand}}. All rights reserved.</p>
  </div>
</div>
</body>
</html>
`))

var internalTemplate = template.Must(template.New("internal").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>New Quotation Request</title>
</head>
<body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; background-color: #f8f9fa;">
<div style="background-color: #ffffff; padding: 30px; border-radius: 10px;">
  <div style="background-color: #2563eb; color: #ffffff; padding: 20px; border-radius: 8px; margin-bottom: 30px; text-align: center;">
    <h2 style="margin: 0;">New Quotation Request Received</h2>
    <p style="margin: 10px 0 0 0;">Immediate attention required</p>
  </div>

  <div style="background-color: #eff6ff; border: 2px solid #2563eb; padding: 15px; border-radius: 8px; font-family: monospace; font-weight: bold; color: #2563eb; text-align: center; font-size: 18px; margin: 20px 0;">
    Reference: {{.ReferenceNumber}}
  </div>

  <p><strong>Date:</strong> {{.SubmittedAt}}</p>

  <div style="margin: 25px 0; padding: 20px; border-left: 4px solid #2563eb; background-color: #f8f9fa;">
    <h3 style="margin-top: 0; color: #2563eb;">CLIENT DETAILS</h3>
    <table style="width: 100%; border-collapse: separate; border-spacing: 15px;">
      <tr>
        <td><div><strong>Name</strong></div><div>{{.FullName}}</div></td>
        <td><div><strong>Company</strong></div><div>{{.CompanyName}}</div></td>
      </tr>
      <tr>
        <td><div><strong>Email</strong></div><div>{{.Email}}</div></td>
        <td><div><strong>Phone</strong></div><div>{{.Phone}}</div></td>
      </tr>
    </table>
    <div><div><strong>Address</strong></div><div>{{.Address}}</div></div>
    {{- if .VATNumber}}
    <div><div><strong>VAT Number</strong></div><div>{{.VATNumber}}</div></div>
    {{- end}}
    {{- if .ContactPerson}}
    <div><div><strong>Contact Person</strong></div><div>{{.ContactPerson}}</div></div>
    {{- end}}
  </div>

  <div style="margin: 25px 0; padding: 20px; border-left: 4px solid #2563eb; background-color: #f8f9fa;">
    <h3 style="margin-top: 0; color: #2563eb;">PROJECT DETAILS</h3>
    <table style="width: 100%; border-collapse: separate; border-spacing: 15px;">
      <tr>
        <td><div><strong>Category</strong></div><div>{{.ProjectCategory}}</div></td>
        <td><div><strong>Service Type</strong></div><div>{{.ServiceType}}</div></td>
      </tr>
      <tr>
        <td><div><strong>Timeline</strong></div><div>{{.Timeline}}</div></td>
        {{- if .BudgetRange}}
        <td><div><strong>Budget Range</strong></div><div>{{.BudgetRange}}</div></td>
        {{- end}}
      </tr>
    </table>
    {{- if .OtherCategory}}
    <div><div><strong>Specific Category</strong></div><div>{{.OtherCategory}}</div></div>
    {{- end}}
    <div style="background-color: #ffffff; padding: 15px; border-radius: 5px; border: 1px solid #e5e7eb; margin: 15px 0;">
      <div><strong>Project Description</strong></div>
      <div>{{.Description}}</div>
    </div>
    {{- if .ReferralSource}}
    <div><div><strong>How they heard about us</strong></div><div>{{.ReferralSource}}</div></div>
    {{- end}}
  </div>

  <div style="margin: 25px 0; padding: 20px; border-left: 4px solid #2563eb; background-color: #f8f9fa;">
    <h3 style="margin-top: 0; color: #2563eb;">NEXT STEPS</h3>
    <p>PDF proposal has been generated and sent to client</p>
    <p>Teams meeting link provided: <a href="{{.MeetingLink}}">Join Meeting</a></p>
    <p>Client email: {{.Email}}</p>
  </div>

  <div style="background-color: #dc2626; color: #ffffff; padding: 15px; border-radius: 8px; margin: 20px 0; text-align: center; font-weight: bold;">
    ACTION REQUIRED: Follow up with client if they don't schedule within {{.FollowUpDays}} days
  </div>

  <div style="text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb; color: #6b7280; font-size: 12px;">
    <p>This is an automated notification from the {{.Brand}} quotation system.</p>
    <p>Generated on {{.GeneratedAt}}</p>
  </div>
</div>
</body>
</html>
`))
