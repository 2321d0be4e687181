package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/pkg/formatter"
	"github.com/spf13/cobra"
)

var (
	reportFormat string
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Export the report of a completed interview",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "", "Report format: markdown, json, pdf or docx (default from --output, else markdown)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write the report to this file instead of stdout")
}

func runReport(cmd *cobra.Command, args []string) error {
	core, err := loadCore(cmd.Context())
	if err != nil {
		return err
	}
	defer core.Close()

	record, err := core.Usecase.GetReport(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get report: %w", err)
	}

	if reportOutput != "" {
		return writeReport(reportOutput, reportFormat, record)
	}

	format, err := resolveFormat(reportFormat, "")
	if err != nil {
		return err
	}
	return renderReport(cmd.OutOrStdout(), format, record)
}

func printReport(w io.Writer, record *entity.InterviewRecord) error {
	return renderReport(w, entity.FormatMarkdown, record)
}

func renderReport(w io.Writer, format entity.ResultFormat, record *entity.InterviewRecord) error {
	fmtr, err := formatter.NewFactory().Create(format)
	if err != nil {
		return err
	}

	data, err := fmtr.Format(record)
	if err != nil {
		return fmt.Errorf("format report: %w", err)
	}

	_, err = w.Write(data)
	return err
}

// writeReport saves the report; the format follows the file extension unless
// given explicitly
func writeReport(path, format string, record *entity.InterviewRecord) error {
	resolved, err := resolveFormat(format, path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := renderReport(f, resolved, record); err != nil {
		return err
	}
	return f.Close()
}

func resolveFormat(format, path string) (entity.ResultFormat, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			return entity.FormatJSON, nil
		case ".pdf":
			return entity.FormatPDF, nil
		case ".docx":
			return entity.FormatDOCX, nil
		default:
			return entity.FormatMarkdown, nil
		}
	}

	if format == "md" {
		format = string(entity.FormatMarkdown)
	}
	f := entity.ResultFormat(format)
	if !f.IsValid() {
		return "", fmt.Errorf("unsupported format %q", format)
	}
	return f, nil
}
