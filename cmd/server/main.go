package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mclights/geopoint/internal/config"
	"github.com/mclights/geopoint/internal/geocode"
	"github.com/mclights/geopoint/internal/logger"
	"github.com/mclights/geopoint/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"      env:"CONFIG_FILE"    description:"Path to configuration file"`
	Addr       string `short:"a" long:"addr"        env:"LISTEN_ADDRESS" description:"Address to listen on"        default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"        env:"LISTEN_PORT"    description:"Port to listen on"           default:"8080"`
	Language   string `short:"l" long:"language"    env:"GEOCODER_LANG"  description:"Override geocoder language"`
	NoGeocode  bool   `short:"n" long:"no-geocode"  env:"NO_GEOCODE"     description:"Disable reverse geocoding endpoints"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Language != "" {
		cfg.Geocoder.Language = opts.Language
	}

	var locator *geocode.Locator
	if !opts.NoGeocode {
		locator, err = geocode.NewFromConfig(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create geocoder")
		}
		defer func() { _ = locator.Close() }()
	}

	srvCtx := server.NewServerContext(cfg, locator)
	handler := server.RequestLogger(srvCtx.Routes())

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("addr", listenAddr).
		Bool("geocoding", locator != nil).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
