package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// api is the slice of tgbotapi.BotAPI the transport uses. Tests swap in
// a fake; production passes the real client.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Sender adapts the Telegram client to the notification dispatcher.
type Sender struct {
	api api
}

func NewSender(a api) *Sender {
	return &Sender{api: a}
}

func (s *Sender) Send(chatID int64, text string, markdown bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	_, err := s.api.Send(msg)
	return err
}
