package commands

import (
	"context"
	"strings"
	"time"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"
	"github.com/dmcooller/Real-ESRGAN/internal/core/port"

	"github.com/rs/zerolog/log"
)

type ModelsHandler struct {
	textSender port.TextSender
	command    string
}

func NewModelsHandler(textSender port.TextSender, command string) *ModelsHandler {
	return &ModelsHandler{textSender: textSender, command: command}
}

func (h *ModelsHandler) GetCommand() string {
	return h.command
}

func (h *ModelsHandler) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", h.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var sb strings.Builder
	sb.WriteString("Supported models:\n")
	for _, name := range domain.ModelNames() {
		sb.WriteString("- ")
		sb.WriteString(string(name))
		sb.WriteString("\n")
	}

	err := h.textSender.SendMessageReply(ctx, message, sb.String())
	if err != nil {
		l.Error().Err(err).Msg("failed to send model list")
		return err
	}

	return nil
}
