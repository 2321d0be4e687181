package formatter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *entity.InterviewRecord {
	return &entity.InterviewRecord{
		ID:            "3f1c",
		InterviewType: entity.InterviewTypeBehavioral,
		Responses: []entity.Response{
			{Question: "Tell me about yourself", Answer: "I build payment systems", Feedback: &entity.Feedback{Score: 7.5, Feedback: "Concise"}},
			{Question: "Describe a conflict", Answer: entity.SkippedAnswer},
			{Question: "Why us?", Answer: "Mission"},
		},
		Report: entity.FinalReport{
			OverallScore:       7,
			CommunicationScore: 7.5,
			ConfidenceScore:    6,
			TechnicalScore:     7,
			Summary:            "Solid interview.",
			Strengths:          []string{"Clear examples"},
			Improvements:       []string{"Quantify impact"},
		},
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	for _, format := range []entity.ResultFormat{entity.FormatMarkdown, entity.FormatJSON, entity.FormatDOCX, entity.FormatPDF} {
		fmtr, err := f.Create(format)
		require.NoError(t, err, format)
		require.NotEmpty(t, fmtr.ContentType())
		require.NotEmpty(t, fmtr.FileExtension())
	}

	_, err := f.Create("html")
	require.Error(t, err)
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleRecord())
	require.NoError(t, err)

	md := string(out)
	require.Contains(t, md, "# Interview Report: Behavioral")
	require.Contains(t, md, "- Overall: 7.0 / 10")
	require.Contains(t, md, "## Summary\n\nSolid interview.")
	require.Contains(t, md, "- 1. Tell me about yourself (score 7.5): Concise")
	require.Contains(t, md, "- 2. Describe a conflict (skipped)")
	require.Contains(t, md, "- 3. Why us? (not scored)")
	require.NotContains(t, md, "## Recommendations")
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSONFormatter().Format(sampleRecord())
	require.NoError(t, err)

	var decoded entity.InterviewRecord
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, "3f1c", decoded.ID)
	require.Len(t, decoded.Responses, 3)
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter().Format(sampleRecord())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestDOCXFormatter(t *testing.T) {
	out, err := NewDOCXFormatter().Format(sampleRecord())
	if err != nil {
		// unioffice refuses to save without a license key
		t.Skipf("docx output unavailable: %v", err)
	}
	// docx is a zip container
	require.True(t, bytes.HasPrefix(out, []byte("PK")))
}
