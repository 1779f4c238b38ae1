package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flicktui/flick/internal/atp"
	"github.com/flicktui/flick/internal/config"
	"github.com/flicktui/flick/internal/prefs"
	"github.com/flicktui/flick/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to the config file (default ~/.config/flick/config.toml)")
	prefsPath := flag.String("prefs", prefs.DefaultPath(), "path to the preferences file")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}

	if path := os.Getenv("FLICK_DEBUG"); path != "" {
		f, err := tea.LogToFile(path, "flick")
		if err != nil {
			fmt.Println("failed to open debug log:", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	client := atp.NewClientWithSession(cfg.Service, atp.LoadSession(cfg.SessionPath))

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Client:      client,
			Prefs:       prefs.Load(*prefsPath),
			PrefsPath:   *prefsPath,
			SessionPath: cfg.SessionPath,
			Identifier:  cfg.Identifier,
			Password:    config.AppPassword(),
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
