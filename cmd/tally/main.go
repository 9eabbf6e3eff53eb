package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/tally/internal/app"
	"github.com/five82/tally/internal/prefs"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/tally/config.toml)")
	prefsPath := flag.String("prefs", prefs.DefaultPath(), "preferences file path")
	pollSeconds := flag.Int("poll", 0, "background refresh interval in seconds (optional)")
	latencyMS := flag.Int("latency", -1, "simulated backend latency in milliseconds (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		LatencyMS:  *latencyMS,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "tally: %v\n", err)
		return 1
	}
	return 0
}
