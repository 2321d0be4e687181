package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format, path string
		want         entity.ResultFormat
		wantErr      bool
	}{
		{path: "out.pdf", want: entity.FormatPDF},
		{path: "out.JSON", want: entity.FormatJSON},
		{path: "out.docx", want: entity.FormatDOCX},
		{path: "out.txt", want: entity.FormatMarkdown},
		{format: "md", path: "out.pdf", want: entity.FormatMarkdown},
		{format: "html", wantErr: true},
	}

	for _, tt := range tests {
		got, err := resolveFormat(tt.format, tt.path)
		if tt.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got, tt)
	}
}

func TestWriteReport(t *testing.T) {
	record := &entity.InterviewRecord{
		ID:            "abc",
		InterviewType: entity.InterviewTypeTechnical,
		Report:        entity.FinalReport{OverallScore: 6, Summary: "Fine."},
	}

	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, writeReport(path, "", record))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "Fine.")
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printProgress(&buf, nil))
	require.Contains(t, buf.String(), "No completed interviews yet")

	buf.Reset()
	require.NoError(t, printProgress(&buf, []entity.Progress{{
		SessionID:          "s1",
		InterviewType:      entity.InterviewTypeMixed,
		CommunicationScore: 7.5,
		CompletedAt:        time.Now(),
	}}))
	require.Contains(t, buf.String(), "COMMUNICATION")
	require.Contains(t, buf.String(), "mixed")
	require.Contains(t, buf.String(), "7.5")
	require.Contains(t, buf.String(), "│ s1")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// top border, header, separator, one row, bottom border
	require.Len(t, lines, 5)
}
