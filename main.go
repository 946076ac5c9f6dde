package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SketchBoard/internal/config"
	"SketchBoard/internal/logging"
	boardnet "SketchBoard/internal/net"
	"SketchBoard/internal/raster"
	"SketchBoard/internal/state"
	"SketchBoard/internal/ui"
)

type cliOpts struct {
	configPath string
	serve      bool
	addr       string
	discover   bool
	verbose    bool
}

func parseCLIOpts() cliOpts {
	var opt cliOpts
	flag.StringVar(&opt.configPath, "config", "", "Path to config.toml (default: $XDG_CONFIG_HOME/sketchboard/config.toml)")
	flag.BoolVar(&opt.serve, "serve", false, "Serve the board to browsers instead of opening a window")
	flag.StringVar(&opt.addr, "addr", "", "Listen address for -serve (overrides config)")
	flag.BoolVar(&opt.discover, "discover", false, "List board servers on the local network and exit")
	flag.BoolVar(&opt.verbose, "v", false, "Debug logging")
	flag.Parse()
	return opt
}

func main() {
	opt := parseCLIOpts()
	logger := logging.New(os.Stderr, opt.verbose)

	if opt.discover {
		runDiscover()
		return
	}

	cfg, err := loadConfig(opt.configPath)
	if err != nil {
		log.Fatalf("Couldn't load config: %v", err)
	}
	if opt.addr != "" {
		cfg.Addr = opt.addr
	}

	if opt.serve {
		runServer(cfg, logger)
	} else {
		runDesktop(cfg, logger)
	}
}

// loadConfig reads the given file, or the default one, writing defaults
// there first if it does not exist yet.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = config.DefaultPath()
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			log.Printf("Initializing config at %s", path)
			if err := config.Save(path, config.Default()); err != nil {
				log.Printf("Couldn't write default config: %v", err)
			}
		}
	}
	return config.Load(path)
}

func runDesktop(cfg config.Config, logger *slog.Logger) {
	log.Println("Starting desktop board")
	surface, err := raster.New(cfg.Width, cfg.Height, state.Background)
	if err != nil {
		log.Fatalf("Couldn't create surface: %v", err)
	}
	surface.SetLogger(logger.With("component", "surface"))
	board := state.NewBoard(surface, cfg.Settings(), cfg.MaxHistory, logger)
	ui.RunApp(board, surface, cfg.ExportName, logger)
	board.History.Wait()
}

func runServer(cfg config.Config, logger *slog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Advertise {
		mdnsServer, err := boardnet.Advertise(cfg.Addr)
		if err != nil {
			log.Printf("mDNS advertisement disabled: %v", err)
		} else {
			defer mdnsServer.Shutdown()
		}
	}

	if link, err := boardnet.ShareURL(cfg.Addr); err == nil {
		log.Printf("Open %s in a browser to draw", link)
	}

	srv := boardnet.NewServer(cfg, logger)
	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Board server failed: %v", err)
	}
}

func runDiscover() {
	urls, err := boardnet.Discover(2 * time.Second)
	if err != nil {
		log.Printf("Discovery incomplete: %v", err)
	}
	if len(urls) == 0 {
		fmt.Println("No boards found")
		return
	}
	for _, u := range urls {
		fmt.Println(u)
	}
}
