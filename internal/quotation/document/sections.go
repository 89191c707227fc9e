package document

import (
	"fmt"

	"quotation-workers/internal/common/config"
	"quotation-workers/internal/models"
)

// Section names in document order.
const (
	SectionCover          = "cover"
	SectionProposalHeader = "proposal-header"
	SectionCoverLetter    = "cover-letter"
	SectionContents       = "table-of-contents"
	SectionIntroduction   = "introduction"
	SectionOverview       = "project-overview"
	SectionNextSteps      = "next-steps"
	SectionMeeting        = "meeting-details"
	SectionApproach       = "development-approach"
	SectionTerms          = "terms-and-acceptance"
	SectionAcknowledgment = "acknowledgment"
)

// SectionOrder lists every section the composer emits.
var SectionOrder = []string{
	SectionCover,
	SectionProposalHeader,
	SectionCoverLetter,
	SectionContents,
	SectionIntroduction,
	SectionOverview,
	SectionNextSteps,
	SectionMeeting,
	SectionApproach,
	SectionTerms,
	SectionAcknowledgment,
}

const dateLayout = "2006/01/02"

const meetingQRName = "meeting-link-qr"

// builder accumulates the blocks of one section.
type builder struct {
	blocks []Block
}

func (b *builder) add(blocks ...Block) *builder {
	b.blocks = append(b.blocks, blocks...)
	return b
}

func (b *builder) title(s string) *builder { return b.add(Title(s, 16)) }
func (b *builder) subtitle(s string) *builder { return b.add(Subtitle(s)) }
func (b *builder) text(s string) *builder { return b.add(Text(s, 10, false)) }
func (b *builder) bold(s string, size float64) *builder { return b.add(Text(s, size, true)) }
func (b *builder) space(h float64) *builder { return b.add(Spacer(h)) }

// optional adds a text line only when value is non-empty.
func (b *builder) optional(format, value string, size float64, bold bool) *builder {
	if value == "" {
		return b
	}
	return b.add(Text(fmt.Sprintf(format, value), size, bold))
}

func (b *builder) section(name string) Section {
	return Section{Name: name, Blocks: b.blocks}
}

// sectionSet builds the eleven sections for one record.
type sectionSet struct {
	cfg    config.QuotationConfig
	record models.QuotationRecord
	qr     []byte
}

func (s sectionSet) build() []Section {
	return []Section{
		s.cover(),
		s.proposalHeader(),
		s.coverLetter(),
		s.contents(),
		s.introduction(),
		s.overview(),
		s.nextSteps(),
		s.meeting(),
		s.approach(),
		s.terms(),
		s.acknowledgment(),
	}
}

func (s sectionSet) date() string {
	return s.record.SubmissionDate.Format(dateLayout)
}

func (s sectionSet) cover() Section {
	c := s.cfg.Company
	r := s.record
	b := &builder{}
	b.add(Header(c.Name, c.Tagline)).
		add(Title(fmt.Sprintf("PROPOSAL: %s - %s", r.ProjectCategory, r.CompanyName), 20)).
		space(10).
		bold("Submission Date: "+s.date(), 12).
		space(20).
		subtitle("About "+c.Name).
		text(c.Name+" is a leading software development company specializing in innovative digital solutions. We transform ideas into powerful, scalable applications that drive business growth.").
		space(30).
		subtitle("Contact Information").
		text("Email: "+c.Email).
		text("Phone: "+c.Phone).
		text("Website: "+c.Website).
		text("Address: "+c.Address.FullAddress())
	return b.section(SectionCover)
}

func (s sectionSet) proposalHeader() Section {
	r := s.record
	b := &builder{}
	b.title("DEVELOPMENT GUIDE AND PROPOSAL FOR:").
		space(10).
		bold("Client: "+r.CompanyName, 12).
		bold("Project: "+r.ProjectCategory, 12).
		bold("Date: "+s.date(), 12).
		bold("Our Reference: "+r.ReferenceNumber, 12).
		space(20)
	return b.section(SectionProposalHeader)
}

func (s sectionSet) coverLetter() Section {
	c := s.cfg.Company
	r := s.record
	contact := r.Contact()
	b := &builder{}
	b.bold("To: "+r.CompanyName, 10).
		bold("Attention: "+contact, 10).
		text(r.Address).
		space(10).
		bold(fmt.Sprintf("REF: %s - Initial Consultation Proposal", r.ProjectCategory), 10).
		space(10).
		text(fmt.Sprintf("Dear %s,", contact)).
		space(5).
		text(fmt.Sprintf("Thank you for your interest in %s's services. We appreciate the opportunity to discuss your %s requirements.", c.Name, r.ProjectCategory)).
		space(5).
		text("This proposal outlines the next steps for your project. We have scheduled an initial consultation to understand your specific needs and provide a detailed quotation tailored to your requirements.").
		space(5).
		text("Please find the meeting details below and do not hesitate to contact us for any questions or clarifications.").
		space(10).
		text("Warmest regards,").
		space(15).
		bold(c.Name+" Team", 10).
		text(c.Tagline).
		space(20).
		subtitle("Contact Information").
		text(c.Phone).
		text(c.Email).
		text(c.Website).
		space(10).
		text("Head Office:").
		text(c.Address.Street).
		text(c.Address.Area).
		text(c.Address.City+" "+c.Address.PostalCode)
	if c.Registration.BEELevel != "" {
		b.space(10).bold(c.Registration.BEELevel, 10)
	}
	return b.section(SectionCoverLetter)
}

var contentsEntries = []string{
	"1. Introduction",
	"2. Project Overview",
	"3. Next Steps",
	"4. Meeting Details",
	"5. Our Development Approach",
	"6. Terms & Acceptance",
}

func (s sectionSet) contents() Section {
	b := &builder{}
	b.title("TABLE OF CONTENTS").space(10)
	for _, entry := range contentsEntries {
		b.add(Text(entry, 11, false))
	}
	return b.section(SectionContents)
}

func (s sectionSet) introduction() Section {
	c := s.cfg.Company
	r := s.record
	serviceType := "One-time Project Delivery"
	if r.ServiceType == models.ServiceTypeSaaS {
		serviceType = "Software as a Service (SaaS)"
	}

	b := &builder{}
	b.title("1. INTRODUCTION").
		subtitle("1.1 About "+c.Name).
		text(c.Name+" is a premier software development company dedicated to creating innovative digital solutions that empower businesses to thrive in the digital age. Our team of experienced developers, designers, and project managers work collaboratively to deliver high-quality, scalable, and user-centric applications.").
		subtitle("1.2 Project Background").
		text("Project Category: "+r.ProjectCategory).
		optional("Specific Category: %s", r.OtherCategory, 10, false).
		text("Service Type: "+serviceType).
		space(10).
		text("Project Description:").
		text(r.ProjectDescription)
	return b.section(SectionIntroduction)
}

func (s sectionSet) overview() Section {
	r := s.record
	model := "One-time Project - Complete delivery with handover"
	if r.ServiceType == models.ServiceTypeSaaS {
		model = "Software as a Service (SaaS) - Ongoing subscription model"
	}

	b := &builder{}
	b.title("2. PROJECT OVERVIEW").
		bold("Project Category: "+r.ProjectCategory, 11).
		optional("Specific Requirements: %s", r.OtherCategory, 11, true).
		space(10).
		bold("Submitted Requirements:", 11).
		text(r.ProjectDescription).
		space(10).
		bold("Timeline Preference: "+s.cfg.TimelineLabel(r.Timeline), 11).
		optional("Budget Range: %s", r.BudgetRange, 11, true).
		bold("Service Model: "+model, 11)
	return b.section(SectionOverview)
}

var (
	consultationSteps = []string{
		"Discuss your specific project requirements in detail",
		"Review technical specifications and feasibility",
		"Explore possible development approaches",
		"Provide timeline and cost estimates",
		"Answer any questions you may have",
	}
	proposalDeliverables = []string{
		"Specific pricing for your project",
		"Development milestones and timeline",
		"Technology stack recommendations",
		"Payment terms and structure",
	}
	acceptanceSteps = []string{
		"Schedule your consultation meeting using the link provided",
		"Attend the consultation to discuss your project",
		"Receive detailed quotation with specific pricing",
		"Review and accept the detailed proposal",
		"Project kickoff",
	}
)

func bullet(s string) string {
	return "• " + s
}

func (s sectionSet) nextSteps() Section {
	b := &builder{}
	b.title("3. NEXT STEPS").
		text("To provide you with an accurate and comprehensive quotation, we propose an initial consultation meeting where we will:").
		space(5)
	for _, step := range consultationSteps {
		b.text(bullet(step))
	}
	b.space(10).
		text("Following this consultation, we will prepare a detailed proposal with:").
		space(5)
	for _, d := range proposalDeliverables {
		b.text(bullet(d))
	}
	return b.section(SectionNextSteps)
}

func (s sectionSet) meeting() Section {
	c := s.cfg.Company
	m := s.cfg.Meetings
	b := &builder{}
	b.title("4. MEETING DETAILS").
		space(10).
		add(Banner("SCHEDULE YOUR CONSULTATION MEETING")).
		text("We have prepared a Microsoft Teams meeting link for your convenience:").
		space(10).
		add(LinkBox("Meeting Link:", m.DefaultLink)).
		text("Please click the link above or copy it to your browser to join the meeting at your preferred time.")
	if len(s.qr) > 0 {
		b.add(Image(meetingQRName, s.qr, 35)).
			add(Text("Or scan this code to open the meeting link.", 9, false))
	}
	b.optional("Duration: %s", m.Duration, 10, false).
		optional("Availability: %s", m.Availability, 10, false).
		space(10).
		subtitle("Alternative Contact Methods:").
		text(bullet("Email: " + c.Email)).
		text(bullet("Phone: " + c.Phone))
	if calendly := m.AlternativeLinks["calendly"]; calendly != "" {
		b.text(bullet("Schedule via: " + calendly))
	}
	return b.section(SectionMeeting)
}

func (s sectionSet) approach() Section {
	b := &builder{}
	b.title("5. OUR DEVELOPMENT APPROACH").
		text(fmt.Sprintf("%s follows a proven %d-phase development methodology to ensure project success:", s.cfg.Company.Name, len(s.cfg.Phases))).
		space(10)
	for _, p := range s.cfg.Phases {
		b.subtitle(fmt.Sprintf("Phase %d: %s", p.Phase, p.Title)).
			text(p.Description).
			space(5)
	}
	return b.section(SectionApproach)
}

func (s sectionSet) terms() Section {
	t := s.cfg.Terms
	b := &builder{}
	b.title("6. TERMS & ACCEPTANCE").
		subtitle("QUOTATION VALIDITY").
		text(fmt.Sprintf("This initial consultation proposal is valid for %d days from the date of issue. A detailed quotation with specific pricing will be provided following our consultation meeting.", t.QuotationValidityDays)).
		space(10).
		subtitle("STANDARD PAYMENT TERMS (For Reference)")

	if s.record.ServiceType == models.ServiceTypeSaaS {
		b.text(bullet(t.SaaS.Setup)).
			text(bullet(t.SaaS.Monthly)).
			text(bullet(t.SaaS.Annual))
	} else {
		b.text(bullet(fmt.Sprintf("%d%% upfront deposit upon proposal acceptance", t.OneTime.Deposit))).
			text(bullet(fmt.Sprintf("%d%% upon completion of testing", t.OneTime.Milestone))).
			text(bullet(fmt.Sprintf("%d%% upon final deployment and handover", t.OneTime.Final)))
	}

	b.space(10).subtitle("NEXT STEPS")
	for i, step := range acceptanceSteps {
		b.text(fmt.Sprintf("%d. %s", i+1, step))
	}
	return b.section(SectionTerms)
}

func (s sectionSet) acknowledgment() Section {
	b := &builder{}
	b.title("ACKNOWLEDGMENT OF RECEIPT").
		space(20).
		text("I, _________________, duly authorised, acknowledge receipt of this proposal on behalf of _________________.").
		space(20).
		text("Date: _________________").
		space(10).
		text("Company: _________________").
		space(10).
		text("Contact Person: _________________").
		space(10).
		text("Email: _________________").
		space(10).
		text("Signature: _________________").
		space(30).
		text("Please sign and return a scanned copy to "+s.cfg.Company.Email).
		space(10).
		text("We look forward to discussing your project and bringing your vision to life!").
		space(10).
		bold("Please initial all pages before returning.", 10)
	return b.section(SectionAcknowledgment)
}
