package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/interview-backend/internal/entity"
	interviewuc "github.com/futig/interview-backend/internal/usecase/interview"
	"github.com/spf13/cobra"
)

var (
	runType      string
	runQuestions int
	runProfile   string
	runOutput    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a mock interview in the terminal",
	Long: `Run a text-only mock interview. Questions are printed one at a time and
answered on a single line. The final report is printed as markdown and can
also be exported with --output (.md, .json, .pdf or .docx).`,
	RunE: runInterview,
}

func init() {
	runCmd.Flags().StringVarP(&runType, "type", "t", "", "Interview type: behavioral, technical or mixed")
	runCmd.Flags().IntVarP(&runQuestions, "questions", "n", 0, "Number of main questions (1-20)")
	runCmd.Flags().StringVarP(&runProfile, "profile", "p", "", "Interview profile from the profiles file")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Write the report to this file")
}

func runInterview(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	core, err := loadCore(ctx)
	if err != nil {
		return err
	}
	defer core.Close()

	noCamera := false
	session := &terminalSession{uc: core.Usecase, in: cmd.InOrStdin(), out: cmd.OutOrStdout()}

	record, err := session.run(ctx, interviewuc.CreateSessionRequest{
		Profile:        runProfile,
		InterviewType:  entity.InterviewType(runType),
		TotalQuestions: runQuestions,
		RequireCamera:  &noCamera,
	})
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(cmd.OutOrStdout(), "\nInterview abandoned.")
		return nil
	case errors.Is(err, errNoAnswers):
		fmt.Fprintln(cmd.OutOrStdout(), "\nThe interview ended before any answer, no report was produced.")
		return nil
	case err != nil:
		return err
	}

	if err := printReport(cmd.OutOrStdout(), record); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nSession %s saved.\n", record.ID)

	if runOutput != "" {
		return writeReport(runOutput, "", record)
	}
	return nil
}
