package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"bildstore/internal/adapters/converter"
	"bildstore/internal/adapters/handler"
	"bildstore/internal/adapters/session"
	"bildstore/internal/adapters/store"
	"bildstore/internal/core/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting bildstore...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")

	viper.SetDefault("server.listen_address", ":4000")
	viper.SetDefault("images.storage_path", "./data/images")
	viper.SetDefault("images.cache_path", "./data/cache")
	viper.SetDefault("images.max_upload_bytes", 20<<20)

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("server.log_level") {
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

	fileStore, err := store.NewFileStore(
		viper.GetString("images.storage_path"),
		viper.GetString("images.cache_path"))
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing file store")
	}

	verifier, err := session.NewCookieVerifier(viper.GetString("images.session_secret"))
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing session verifier")
	}

	jpegConverter := converter.NewJPEGConverter()

	imageHandler := handler.NewImageHandler(
		service.NewUploader(fileStore, jpegConverter),
		service.NewVariants(fileStore, jpegConverter),
		viper.GetInt64("images.max_upload_bytes"))

	srv := &http.Server{
		Addr:              viper.GetString("server.listen_address"),
		Handler:           handler.Router(imageHandler, verifier),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", srv.Addr).Msg("image service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown did not complete cleanly")
	}
}
