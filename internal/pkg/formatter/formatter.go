package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
)

const baseTitle = "Interview Report"

type Formatter interface {
	Format(record *entity.InterviewRecord) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatJSON:
		return NewJSONFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// section is one titled block of a rendered report
type section struct {
	title   string
	text    string
	bullets []string
}

// reportSections lays out a record in the order every document format uses
func reportSections(record *entity.InterviewRecord) []section {
	report := record.Report

	sections := []section{
		{
			title: "Scores",
			bullets: []string{
				fmt.Sprintf("Overall: %.1f / 10", report.OverallScore),
				fmt.Sprintf("Communication: %.1f / 10", report.CommunicationScore),
				fmt.Sprintf("Confidence: %.1f / 10", report.ConfidenceScore),
				fmt.Sprintf("Technical: %.1f / 10", report.TechnicalScore),
			},
		},
		{title: "Summary", text: report.Summary},
	}

	if report.HiringVerdict != "" {
		sections = append(sections, section{title: "Verdict", text: report.HiringVerdict})
	}

	sections = appendList(sections, "Strengths", report.Strengths)
	sections = appendList(sections, "Areas to Improve", report.Improvements)
	sections = appendList(sections, "Recommendations", report.Recommendations)
	sections = appendList(sections, "Next Steps", report.NextSteps)

	if len(record.Responses) > 0 {
		answers := make([]string, 0, len(record.Responses))
		for i, r := range record.Responses {
			answers = append(answers, responseLine(i+1, r))
		}
		sections = append(sections, section{title: "Questions", bullets: answers})
	}

	return sections
}

func appendList(sections []section, title string, items []string) []section {
	if len(items) == 0 {
		return sections
	}
	return append(sections, section{title: title, bullets: items})
}

func responseLine(n int, r entity.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s", n, r.Question)

	switch {
	case r.IsSkipped():
		b.WriteString(" (skipped)")
	case r.Feedback != nil:
		fmt.Fprintf(&b, " (score %.1f)", r.Feedback.Score)
		if r.Feedback.Feedback != "" {
			fmt.Fprintf(&b, ": %s", r.Feedback.Feedback)
		}
	default:
		b.WriteString(" (not scored)")
	}

	return b.String()
}

func reportTitle(record *entity.InterviewRecord) string {
	if record.InterviewType == "" {
		return baseTitle
	}
	t := string(record.InterviewType)
	return fmt.Sprintf("%s: %s", baseTitle, strings.ToUpper(t[:1])+t[1:])
}
