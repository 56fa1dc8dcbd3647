package handler

import (
	"context"
	"time"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"
	"github.com/dmcooller/Real-ESRGAN/internal/core/port"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// CommandHandler dispatches incoming Telegram messages to registered
// command handlers.
type CommandHandler struct {
	commandRegistry port.CommandRegistry
	timeout         time.Duration
}

func NewCommandHandler(commandRegistry port.CommandRegistry, timeout time.Duration) *CommandHandler {
	return &CommandHandler{commandRegistry: commandRegistry, timeout: timeout}
}

func (c *CommandHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	message := update.Message

	text := message.Text
	if message.Photo != nil {
		text = message.Caption
	}

	log.Debug().Str("message", text).Msg("received command")

	cmd := domain.ParseCommand(text)
	commandHandler, err := c.commandRegistry.Get(cmd)
	if err != nil {
		log.Debug().Str("command", cmd).Msg("no handler for command")
		return
	}

	imageURL := getOptionalImage(ctx, b, message)

	go func() {
		err := commandHandler.Respond(context.Background(), c.timeout, &domain.Message{
			ID:       message.ID,
			ChatID:   message.Chat.ID,
			Text:     text,
			Username: getUserNameOrFirstName(message.From),
			ImageURL: imageURL,
		})
		if err != nil {
			log.Err(err).Str("command", cmd).Msg("failed to respond to command")
		}
	}()
}

func getOptionalImage(ctx context.Context, b *bot.Bot, message *models.Message) string {
	var photos []models.PhotoSize

	if message.ReplyToMessage != nil && message.ReplyToMessage.Photo != nil {
		photos = message.ReplyToMessage.Photo
	}

	if message.Photo != nil {
		photos = message.Photo
	}

	if len(photos) == 0 {
		return ""
	}

	// Telegram orders sizes ascending; upscaling wants the largest source.
	f, err := b.GetFile(ctx, &bot.GetFileParams{FileID: photos[len(photos)-1].FileID})
	if err != nil {
		log.Error().Err(err).Msg("error getting file from telegram api")
		return ""
	}

	return b.FileDownloadLink(f)
}

func getUserNameOrFirstName(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
