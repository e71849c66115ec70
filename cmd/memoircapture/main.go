package main

import (
	"embed"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	wailswindows "github.com/wailsapp/wails/v2/pkg/options/windows"

	"github.com/TanaroSch/memoir-capture/internal/app"
	"github.com/TanaroSch/memoir-capture/internal/capture"
	"github.com/TanaroSch/memoir-capture/internal/config"
	"github.com/TanaroSch/memoir-capture/internal/cursor"
	"github.com/TanaroSch/memoir-capture/internal/focus"
	"github.com/TanaroSch/memoir-capture/internal/hotkey"
	"github.com/TanaroSch/memoir-capture/internal/resources"
	"github.com/TanaroSch/memoir-capture/internal/ui"
	"github.com/TanaroSch/memoir-capture/internal/window"
)

const version = "v0.3.0"

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	log.Printf("Memoir Quick Capture %s starting...", version)

	settingsPath, err := config.DefaultPath()
	if err != nil {
		log.Fatalf("Error locating settings: %v", err)
	}
	if err := config.CreateDefault(settingsPath); err != nil {
		log.Fatalf("Error creating settings: %v", err)
	}
	store, err := config.OpenStore(settingsPath)
	if err != nil {
		log.Fatalf("Error loading settings: %v", err)
	}
	settings := config.LoadSettings(store)

	if settings.LogFile != "" {
		f, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			log.Printf("Warning: Cannot open log file '%s': %v", settings.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, f))
		}
	}

	journalPath := settings.JournalPath
	if journalPath == "" {
		journalPath = filepath.Join(filepath.Dir(settingsPath), "captures.db")
	}
	journal, err := capture.OpenJournal(journalPath)
	if err != nil {
		log.Fatalf("Error opening capture journal: %v", err)
	}
	defer journal.Close()

	iconData, err := resources.GetIcon()
	if err != nil {
		log.Printf("Warning: Failed to load embedded icon: %v", err)
	}
	notifier := ui.InitGlobalNotifications(settings.UseNotifications, ui.AppName, iconData)

	locator := cursor.New()
	surface := window.NewWailsSurface(locator)
	controller := window.NewController(
		surface,
		locator,
		focus.Native(settings.AppIdentifier),
		window.Size{Width: settings.Window.Width, Height: settings.Window.Height},
	)

	opts := app.Options{
		Version:  version,
		Store:    store,
		Registry: hotkey.NewRegistry(hotkey.SelectBackend()),
		Window:   controller,
		Captures: capture.NewService(journal, nil),
		Surface:  surface,
		Tray:     true,
		Icon:     iconData,
		Notifier: notifier,
	}
	if tokens, err := capture.OpenTokenStore(); err != nil {
		log.Printf("Warning: API token storage unavailable: %v", err)
	} else {
		opts.Tokens = tokens
	}
	application := app.New(opts)

	chrome := window.CaptureOptions
	background := &options.RGBA{R: 255, G: 255, B: 255, A: 255}
	if chrome.Transparent {
		background = &options.RGBA{R: 0, G: 0, B: 0, A: 0}
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	err = wails.Run(&options.App{
		Title:             ui.AppName,
		Width:             int(settings.Window.Width),
		Height:            int(settings.Window.Height),
		Frameless:         chrome.Frameless,
		DisableResize:     !chrome.Resizable,
		AlwaysOnTop:       chrome.AlwaysOnTop,
		StartHidden:       true,
		HideWindowOnClose: true,
		BackgroundColour:  background,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		LogLevel:   logger.WARNING,
		OnStartup:  app.StartupHook(application),
		OnShutdown: app.ShutdownHook(application),
		Bind:       []interface{}{application},
		Windows: &wailswindows.Options{
			WebviewIsTransparent: chrome.Transparent,
			WindowIsTranslucent:  chrome.Transparent,
		},
		Mac: &mac.Options{
			WebviewIsTransparent: chrome.Transparent,
			WindowIsTranslucent:  chrome.Transparent,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: chrome.Transparent,
		},
	})
	if err != nil {
		log.Fatalf("Error starting application: %v", err)
	}
}
