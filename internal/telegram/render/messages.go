package render

import (
	"fmt"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/turn"
)

const (
	MsgWelcome = `👋 Hi! I am your interview coach.

Pick an interview type below or send /start behavioral, /start technical or /start mixed.
Answer each question with a text or a voice message.`

	MsgHelp = `🤖 Commands:

/start [type] - Start a new mock interview
/skip - Skip the current question
/end - Finish early and get the report
/restart - Start over with the same settings
/report - Send the last report again
/help - Show this help`

	MsgStarting       = "🎬 Starting a %s interview with %d questions. Take your time."
	MsgThinking       = "🤔 Thinking..."
	MsgTranscribing   = "🎧 Listening to your answer..."
	MsgNoSession      = "There is no interview running. Use /start"
	MsgEndedNoAnswers = "The interview ended before any answer, so there is no report. Use /start to try again."
	MsgRestarted      = "🔄 Starting over."
	MsgSessionClosed  = "⌛ The interview session has closed."
	MsgNotNow         = "⏳ Not now, wait for the next question."
	MsgNoAnswer       = "✍️ Please answer with some text or a voice message."
	MsgSlowDown       = "⚠️ Too many messages. Please wait a moment."
	MsgUnknownCommand = "❌ Unknown command. Use /help"
	MsgBadType        = "❌ Unknown interview type. Choose behavioral, technical or mixed."

	ErrGeneric = "❌ Something went wrong. Please try again or send /start"
	ErrVoice   = "❌ Could not process the voice message. Please type your answer."
)

// Question formats the next interviewer question
func Question(s turn.Session) string {
	header := fmt.Sprintf("❓ Question %d of %d", s.QuestionIndex, s.Config.TotalQuestions)
	if s.FollowUpCount > 0 {
		header = fmt.Sprintf("🔎 Follow-up on question %d", s.QuestionIndex)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(s.CurrentQuestionDisplay)

	if tip := latestTip(s); tip != "" {
		b.WriteString("\n\n💡 ")
		b.WriteString(tip)
	}
	return b.String()
}

func latestTip(s turn.Session) string {
	for i := len(s.Tips) - 1; i >= 0; i-- {
		if s.Tips[i].QuestionIndex == s.QuestionIndex {
			return s.Tips[i].Text
		}
	}
	return ""
}

// Notice formats a recoverable failure reported by the session
func Notice(n *turn.Notice) string {
	switch n.Code {
	case turn.NoticeNoResponse:
		return "✍️ " + n.Message
	default:
		return "⚠️ " + n.Message
	}
}

// Report formats the final report summary; the full export is attached
// separately
func Report(r *entity.FinalReport) string {
	var b strings.Builder
	b.WriteString("🏁 Interview complete!\n\n")
	fmt.Fprintf(&b, "Overall: %.1f / 10\n", r.OverallScore)
	fmt.Fprintf(&b, "Communication: %.1f / 10\n", r.CommunicationScore)
	fmt.Fprintf(&b, "Confidence: %.1f / 10\n", r.ConfidenceScore)
	fmt.Fprintf(&b, "Technical: %.1f / 10\n", r.TechnicalScore)

	if r.Summary != "" {
		b.WriteString("\n")
		b.WriteString(r.Summary)
		b.WriteString("\n")
	}
	writeList(&b, "💪 Strengths", r.Strengths)
	writeList(&b, "📈 To improve", r.Improvements)

	return strings.TrimRight(b.String(), "\n")
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString(":\n")
	for _, item := range items {
		b.WriteString("• ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}
