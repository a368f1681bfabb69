package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"watchhub/internal/tray"
)

func main() {
	cfgPath := flag.String("config", "", "path to config file (default ~/.watchhub/config.toml)")
	api := flag.String("api", "", "api-server base URL (overrides config)")
	startID := flag.Int("id", 0, "anilist id to look up on startup")
	flag.Parse()

	cfg, err := tray.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("[tray] %v", err)
	}
	if *api != "" {
		cfg.API = *api
	}

	client := tray.NewClient(cfg.API)
	model := tray.NewModel(client, cfg, *startID)

	p := tea.NewProgram(model, tea.WithAltScreen())
	go tray.FeedEvents(client, p)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tray: %v\n", err)
		os.Exit(1)
	}
}
