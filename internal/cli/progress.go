package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/futig/interview-backend/internal/entity"
	"github.com/spf13/cobra"
)

var (
	progressType  string
	progressLimit int
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "List progress scores of completed interviews, newest first",
	RunE:  runProgress,
}

func init() {
	progressCmd.Flags().StringVarP(&progressType, "type", "t", "", "Only interviews of this type")
	progressCmd.Flags().IntVarP(&progressLimit, "limit", "l", 20, "Maximum number of rows")
}

func runProgress(cmd *cobra.Command, _ []string) error {
	core, err := loadCore(cmd.Context())
	if err != nil {
		return err
	}
	defer core.Close()

	var interviewType *entity.InterviewType
	if progressType != "" {
		t := entity.InterviewType(progressType)
		interviewType = &t
	}

	items, err := core.Usecase.ListProgress(cmd.Context(), interviewType, progressLimit)
	if err != nil {
		return fmt.Errorf("list progress: %w", err)
	}

	return printProgress(cmd.OutOrStdout(), items)
}

func printProgress(w io.Writer, items []entity.Progress) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No completed interviews yet. Start one with: interviewctl run")
		return err
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	header := cell.Bold(true)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("COMPLETED", "TYPE", "COMMUNICATION", "CONFIDENCE", "TECHNICAL", "SESSION")

	for _, p := range items {
		t.Row(
			p.CompletedAt.Local().Format(time.DateTime),
			string(p.InterviewType),
			fmt.Sprintf("%.1f", p.CommunicationScore),
			fmt.Sprintf("%.1f", p.ConfidenceScore),
			fmt.Sprintf("%.1f", p.TechnicalScore),
			p.SessionID,
		)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
