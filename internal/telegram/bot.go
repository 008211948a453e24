package telegram

import (
	"context"
	"fmt"
	"strings"

	"materiaux-bot/internal/admin"
	"materiaux-bot/internal/checkout"
	"materiaux-bot/internal/logger"
	"materiaux-bot/internal/user"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const updateTimeout = 30 // long-polling timeout in seconds

// Bot is the Telegram transport. It turns updates into checkout events,
// renders the machine's replies and routes operator slash commands.
type Bot struct {
	api     api
	machine *checkout.Machine
	users   user.Repository
	admin   *admin.Handler
	limiter *Limiter
}

func NewBot(a api, machine *checkout.Machine, users user.Repository, adminHandler *admin.Handler) *Bot {
	return &Bot{
		api:     a,
		machine: machine,
		users:   users,
		admin:   adminHandler,
		limiter: NewLimiter(),
	}
}

// Run consumes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = updateTimeout
	updates := b.api.GetUpdatesChan(cfg)

	defer b.limiter.Stop()
	defer b.api.StopReceivingUpdates()

	logger.L().Info("telegram bot started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Text == "" {
		return
	}
	chatID := msg.Chat.ID
	ctx = logger.WithChatID(ctx, chatID)
	log := logger.FromCtx(ctx)

	if !b.limiter.Allow(chatID) {
		log.Debug("update dropped by rate limiter")
		return
	}

	from := userFromMessage(msg)

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, from, msg)
		return
	}

	replies, err := b.machine.Handle(ctx, from, eventFromText(msg.Text))
	if err != nil {
		log.Error("failed to handle message", zap.Error(err))
	}
	b.sendReplies(ctx, chatID, replies)
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, from user.User, msg *tgbotapi.Message) {
	if msg.Command() == "start" {
		b.handleStart(ctx, chatID, from)
		return
	}
	if reply := b.admin.Handle(ctx, chatID, msg.Text); reply != nil {
		b.sendReplies(ctx, chatID, []checkout.Reply{*reply})
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, from user.User) {
	if err := b.users.Upsert(ctx, from); err != nil {
		logger.FromCtx(ctx).Error("failed to upsert user", zap.Error(err))
	}

	firstName := from.Name
	if i := strings.IndexByte(firstName, ' '); i > 0 {
		firstName = firstName[:i]
	}
	if firstName == "" {
		firstName = "Client"
	}

	greeting := checkout.Reply{
		Text: fmt.Sprintf(
			"Bonjour %s 👷‍♂️\nBienvenue sur *Matériaux Mada Bot*.\n\nChoisissez une option:",
			firstName,
		),
		Markdown: true,
		Keyboard: checkout.MainMenuKeyboard(),
	}
	b.sendReplies(ctx, chatID, []checkout.Reply{greeting})
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.From == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	ctx = logger.WithChatID(ctx, chatID)
	log := logger.FromCtx(ctx)

	// Ack first so the client stops showing the spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Warn("failed to answer callback query", zap.Error(err))
	}

	productID, ok := checkout.ParseProductCallback(cq.Data)
	if !ok {
		return
	}

	from := user.User{
		ID:       cq.From.ID,
		Name:     strings.TrimSpace(cq.From.FirstName + " " + cq.From.LastName),
		Username: cq.From.UserName,
	}

	replies, err := b.machine.Handle(ctx, from, checkout.ProductSelected{ProductID: productID})
	if err != nil {
		log.Error("failed to handle product selection", zap.Error(err))
	}
	b.sendReplies(ctx, chatID, replies)
}

func (b *Bot) sendReplies(ctx context.Context, chatID int64, replies []checkout.Reply) {
	log := logger.FromCtx(ctx)
	for _, reply := range replies {
		if _, err := b.api.Send(renderReply(chatID, reply)); err != nil {
			log.Error("failed to send reply", zap.Error(err))
		}
	}
}

// renderReply maps a machine reply onto the Telegram message shape.
func renderReply(chatID int64, r checkout.Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if r.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}

	switch {
	case len(r.Inline) > 0:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(r.Inline))
		for _, btn := range r.Inline {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data),
			))
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	case len(r.Keyboard) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(r.Keyboard))
		for _, row := range r.Keyboard {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, label := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, buttons)
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.ResizeKeyboard = true
		msg.ReplyMarkup = keyboard
	case r.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}
	return msg
}

func userFromMessage(msg *tgbotapi.Message) user.User {
	return user.User{
		ID:       msg.From.ID,
		Name:     strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName),
		Username: msg.From.UserName,
	}
}
