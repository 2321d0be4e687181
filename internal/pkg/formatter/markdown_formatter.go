package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/interview-backend/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(record *entity.InterviewRecord) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", reportTitle(record))

	for _, s := range reportSections(record) {
		fmt.Fprintf(&buf, "\n## %s\n\n", s.title)
		if s.text != "" {
			fmt.Fprintf(&buf, "%s\n", s.text)
		}
		for _, b := range s.bullets {
			fmt.Fprintf(&buf, "- %s\n", b)
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
