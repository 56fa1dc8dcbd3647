package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dmcooller/Real-ESRGAN/internal/adapters/codec"
	"github.com/dmcooller/Real-ESRGAN/internal/adapters/device"
	"github.com/dmcooller/Real-ESRGAN/internal/adapters/engine"
	"github.com/dmcooller/Real-ESRGAN/internal/adapters/file"
	"github.com/dmcooller/Real-ESRGAN/internal/adapters/handler"
	"github.com/dmcooller/Real-ESRGAN/internal/adapters/sender"
	"github.com/dmcooller/Real-ESRGAN/internal/adapters/weights"
	"github.com/dmcooller/Real-ESRGAN/internal/core/domain/commands"
	"github.com/dmcooller/Real-ESRGAN/internal/core/service"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting upscaler service...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")
	viper.SetConfigName("config")

	viper.SetDefault("weights.dir", "weights")
	viper.SetDefault("engine.command", "realesrgan-worker")
	viper.SetDefault("http.listen", ":8080")
	viper.SetDefault("handler.timeout", "10m")

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal().Err(err).Msg("could not read config file")
		}
		log.Info().Msg("no config file found, using defaults")
	}

	var logLevel zerolog.Level

	switch viper.GetString("log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	runner, err := engine.NewRunner(viper.GetString("engine.command"))
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing inference engine")
	}

	upscaler := service.NewUpscaler(
		weights.NewStore(viper.GetString("weights.dir")),
		device.NewHostProbe(),
		engine.NewFactory(runner),
		codec.NewGoCVCodec(),
	)

	router := gin.New()
	router.Use(gin.Recovery())
	handler.NewAPI(upscaler).Register(router)

	srv := &http.Server{
		Addr:              viper.GetString("http.listen"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("listen", srv.Addr).Msg("http api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	token := viper.GetString("telegram.bot_token")
	if token != "" {
		runBot(ctx, token, upscaler)
	} else {
		log.Info().Msg("no telegram token configured, bot disabled")
		<-ctx.Done()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown failed")
	}
}

func runBot(ctx context.Context, token string, upscaler *service.Upscaler) {
	opts := []bot.Option{
		bot.WithDefaultHandler(noOpHandler),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing telegram bot")
	}

	s := sender.NewTelegramSender(b)

	authorizer, err := service.NewAuthorizer(s)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing authorizer")
	}

	tracker := service.NewUsageTracker(ctx, s)

	commandRegistry := &commands.Registry{}
	commandRegistry.Register(commands.NewUpscaleHandler(upscaler, authorizer, tracker,
		file.NewHTTPDownloader(), s, s, "/upscale"))
	commandRegistry.Register(commands.NewModelsHandler(s, "/models"))

	handlerTimeout, err := time.ParseDuration(viper.GetString("handler.timeout"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid timeout for handler in config")
	}

	commandHandler := handler.NewCommandHandler(commandRegistry, handlerTimeout)

	b.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, commandHandler.Handle)
	b.RegisterHandler(bot.HandlerTypePhotoCaption, "/", bot.MatchTypePrefix, commandHandler.Handle)

	log.Info().Msg("bot listening")
	b.Start(ctx)
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}
