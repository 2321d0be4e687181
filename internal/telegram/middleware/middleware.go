package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Middleware wraps the processing of one update
type Middleware interface {
	Handle(update tgbotapi.Update, next func(tgbotapi.Update))
}

// Sender is the part of the bot API middlewares reply through
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Chain runs update through middlewares in order and ends with final
func Chain(update tgbotapi.Update, final func(tgbotapi.Update), middlewares ...Middleware) {
	next := final
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw, inner := middlewares[i], next
		next = func(u tgbotapi.Update) { mw.Handle(u, inner) }
	}
	next(update)
}

// origin extracts the user and chat an update came from
func origin(update tgbotapi.Update) (userID, chatID int64, ok bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.From.ID, update.CallbackQuery.Message.Chat.ID, true
	default:
		return 0, 0, false
	}
}

// kind names an update for logs
func kind(update tgbotapi.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return "callback"
	case update.Message == nil:
		return "other"
	case update.Message.IsCommand():
		return "command"
	case update.Message.Voice != nil:
		return "voice"
	case update.Message.Text != "":
		return "text"
	default:
		return "other"
	}
}
