package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"
	"github.com/dmcooller/Real-ESRGAN/internal/core/port"
	"github.com/dmcooller/Real-ESRGAN/internal/core/service"

	"github.com/rs/zerolog/log"
)

// DefaultModel is used when the caller names no model in the command.
const DefaultModel = domain.ModelRealESRGANx4Plus

type UpscaleHandler struct {
	upscaler    port.UpscaleService
	authorizer  service.Authorizer
	tracker     service.Tracker
	downloader  port.FileDownloader
	textSender  port.TextSender
	imageSender port.ImageSender
	command     string
}

func NewUpscaleHandler(upscaler port.UpscaleService, authorizer service.Authorizer, tracker service.Tracker,
	downloader port.FileDownloader, textSender port.TextSender, imageSender port.ImageSender,
	command string) *UpscaleHandler {
	return &UpscaleHandler{upscaler: upscaler, authorizer: authorizer, tracker: tracker,
		downloader: downloader, textSender: textSender, imageSender: imageSender, command: command}
}

func (h *UpscaleHandler) GetCommand() string {
	return h.command
}

func (h *UpscaleHandler) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", h.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !h.authorizer.IsAuthorized(ctx, message.ChatID) {
		return nil
	}

	if !h.tracker.CheckLimit(ctx, message.ChatID) {
		return nil
	}

	go h.textSender.SendChatAction(ctx, message.ChatID, domain.SendingPhoto)

	if message.ImageURL == "" {
		_ = h.textSender.NotifyAndReturnError(ctx, domain.ErrMissingImage, message)
		return nil
	}

	request, err := parseUpscaleArgs(domain.ParseCommandArgs(message.Text))
	if err != nil {
		_ = h.textSender.NotifyAndReturnError(ctx,
			fmt.Errorf("usage: %s [model] [face]: %w", h.command, err), message)
		return nil
	}

	image, err := h.downloader.Download(ctx, message.ImageURL)
	if err != nil {
		return h.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to fetch image: %w", err), message)
	}

	result, err := h.upscaler.Upscale(ctx, image, request)
	if err != nil {
		return h.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to upscale image: %w", err), message)
	}

	h.tracker.AddUpscale(message.ChatID)

	err = h.imageSender.SendImageFileReply(ctx, message, result.Data, result.Extension)
	if err != nil {
		return h.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to send upscaled image: %w", err), message)
	}

	return nil
}

// parseUpscaleArgs understands "/upscale", "/upscale <model>" and an
// optional trailing "face" token enabling face restoration.
func parseUpscaleArgs(args string) (domain.UpscaleRequest, error) {
	request := domain.UpscaleRequest{Model: DefaultModel}

	for _, token := range strings.Fields(args) {
		if strings.EqualFold(token, "face") {
			request.FaceEnhance = true
			continue
		}

		if _, err := domain.Lookup(domain.ModelName(token)); err != nil {
			return request, err
		}

		request.Model = domain.ModelName(token)
	}

	return request, nil
}
