package keyboard

import (
	"github.com/futig/interview-backend/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Builder creates inline keyboards
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// InterviewTypeKeyboard offers the interview types to start with
func (b *Builder) InterviewTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗣 Behavioral", EncodeCallback(ActionType, string(entity.InterviewTypeBehavioral))),
			tgbotapi.NewInlineKeyboardButtonData("🛠 Technical", EncodeCallback(ActionType, string(entity.InterviewTypeTechnical))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔀 Mixed", EncodeCallback(ActionType, string(entity.InterviewTypeMixed))),
		),
	)
}

// QuestionKeyboard is attached to every question
func (b *Builder) QuestionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", EncodeCallback(ActionControl, "skip")),
			tgbotapi.NewInlineKeyboardButtonData("🏁 Finish", EncodeCallback(ActionControl, "end")),
		),
	)
}

// ReportKeyboard is attached to the final report
func (b *Builder) ReportKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", EncodeCallback(ActionControl, "restart")),
		),
	)
}
