package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/timeforge/asset"
	"github.com/lixenwraith/timeforge/audio"
	"github.com/lixenwraith/timeforge/config"
	"github.com/lixenwraith/timeforge/core"
	"github.com/lixenwraith/timeforge/engine"
	"github.com/lixenwraith/timeforge/parameter"
	"github.com/lixenwraith/timeforge/render"
)

const (
	logDir      = "logs"
	logFileName = "timeforge.log"
	maxLogSize  = 10 * 1024 * 1024
)

var (
	debugFlag  = flag.Bool("debug", false, "Write a debug log to logs/timeforge.log")
	colorFlag  = flag.String("color", "", "Color mode: auto, truecolor, mono (overrides TIMEFORGE_COLOR)")
	muteFlag   = flag.Bool("mute", false, "Start without audio")
	seedFlag   = flag.Uint64("seed", 0, "Disruption random seed (overrides TIMEFORGE_SEED)")
	freezeFlag = flag.Bool("freeze-on-pause", false, "Hold the disruption countdown while paused")
)

// setupLogging discards log output unless debug is set, then appends to logs/timeforge.log
// A log over maxLogSize is renamed with a timestamp before a fresh one is opened
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("timeforge-%s.log", time.Now().Format("20060102-150405")))
		if err := os.Rename(logPath, rotated); err != nil {
			log.SetOutput(io.Discard)
			return nil
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	return f
}

func main() {
	os.Exit(run())
}

func run() int {
	// Main goroutine panics restore the terminal the same way core.Go does
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "timeforge: %v\n", err)
		return 2
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if *colorFlag != "" {
		cfg.ColorMode = *colorFlag
	}
	if *muteFlag {
		cfg.AudioEnabled = false
	}
	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	if *freezeFlag {
		cfg.FreezeOnPause = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "timeforge: %v\n", err)
		return 2
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	sessionCfg, err := cfg.SessionConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "timeforge: %v\n", err)
		return 2
	}

	art := render.NewArtLoader()
	session, err := engine.NewSession(sessionCfg,
		engine.WithFrameSource(engine.NewFrameLoop(cfg.FrameInterval, nil)),
		engine.WithAssetLoader(art, asset.DefaultRetryPolicy()),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "timeforge: %v\n", err)
		return 2
	}
	log.Printf("main: session seed %d, %d tiers", sessionCfg.Seed, sessionCfg.Costs.Tiers())

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()
	core.SetCrashFinalizer(screen)

	var hostOpts []render.HostOption
	if cfg.ColorMode == config.ColorMono || (cfg.ColorMode == config.ColorAuto && screen.Colors() < 256) {
		hostOpts = append(hostOpts, render.WithMonochrome())
	}
	host := render.NewHost(screen, session, art, hostOpts...)
	session.Register(host)

	if cfg.AudioEnabled {
		player := audio.NewPlayer(cfg.MasterVolume)
		if err := player.Initialize(); err != nil {
			// Non-fatal, the game runs without sound
			log.Printf("main: audio unavailable: %v", err)
		} else {
			defer player.Cleanup()
			session.Register(player)
			host.Bind('m', func() {
				log.Printf("main: muted=%v", player.ToggleMute())
			})
		}
	}

	if err := session.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "timeforge: %v\n", err)
		return 1
	}
	defer session.Stop()

	events := make(chan tcell.Event, parameter.InputQueueSize)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			events <- ev
		}
	})

	drawTicker := time.NewTicker(cfg.FrameInterval)
	defer drawTicker.Stop()

	host.Draw()
	for {
		select {
		case ev := <-events:
			if !host.HandleInput(ev) {
				return 0
			}
		case <-drawTicker.C:
			host.Draw()
		}
	}
}
