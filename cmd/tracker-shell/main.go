package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/walterschell/chess-tracker/config"
	"github.com/walterschell/chess-tracker/shell"
	"github.com/walterschell/chess-tracker/tracker"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	fen := flag.String("fen", "", "Start from this placement instead of the standard position")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.SetupLogging()

	t := tracker.New(cfg.BoardOptions()...)
	if *fen != "" {
		if err := t.LoadFEN(*fen); err != nil {
			log.Fatal().Err(err).Msg("loading start position")
		}
	}

	sc, err := shell.NewShellController(t, filepath.Join(os.TempDir(), "chess-tracker.history"))
	if err != nil {
		log.Fatal().Err(err).Msg("starting shell")
	}
	sc.Loop()
}
