package sender

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

type TelegramSender struct {
	bot *bot.Bot
}

func NewTelegramSender(bot *bot.Bot) *TelegramSender {
	return &TelegramSender{bot: bot}
}

func (s *TelegramSender) SendMessageReply(ctx context.Context, message *domain.Message, text string) error {
	params := &bot.SendMessageParams{
		ChatID: message.ChatID,
		Text:   text,
	}

	if message.ID != 0 {
		params.ReplyParameters = &models.ReplyParameters{
			MessageID: message.ID,
			ChatID:    message.ChatID,
		}
	}

	_, err := s.bot.SendMessage(ctx, params)

	return err
}

// SendImageFileReply sends the upscaled result as a document so Telegram
// does not recompress it back down.
func (s *TelegramSender) SendImageFileReply(ctx context.Context, message *domain.Message, file []byte,
	extension string) error {
	params := &bot.SendDocumentParams{
		ChatID: message.ChatID,
		Document: &models.InputFileUpload{
			Filename: fmt.Sprintf("%d.%s", message.ID, extension),
			Data:     bytes.NewReader(file),
		},
		ReplyParameters: &models.ReplyParameters{
			MessageID: message.ID,
			ChatID:    message.ChatID,
		},
	}

	_, err := s.bot.SendDocument(ctx, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to send image response")
		return err
	}

	return nil
}

func (s *TelegramSender) NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error {
	sendErr := s.SendMessageReply(ctx, message, err.Error())
	if sendErr != nil {
		log.Error().Err(sendErr).Msg("failed to send error notification")
	}

	return err
}

const ChatActionRepeatSeconds = 5

func (s *TelegramSender) SendChatAction(ctx context.Context, chatID int64, action domain.Action) {
	log.Debug().Int64("chatID", chatID).Msg("starting action routine")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Int64("chatID", chatID).Msg("done, stopping action routine")
			return
		default:
		}

		var chatAction models.ChatAction
		switch action {
		case domain.SendingPhoto:
			chatAction = models.ChatActionUploadPhoto
		case domain.Typing:
			chatAction = models.ChatActionTyping
		default:
			chatAction = models.ChatActionTyping
		}

		log.Debug().Int64("chatID", chatID).Msg("transmitting action")
		_, err := s.bot.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: chatAction,
		})
		if err != nil {
			log.Err(err).Msg("error sending chat action")
			return
		}

		time.Sleep(ChatActionRepeatSeconds * time.Second)
	}
}
