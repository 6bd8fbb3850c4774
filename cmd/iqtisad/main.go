package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mubymubu/Iqtisad/internal/game"
	"github.com/Mubymubu/Iqtisad/internal/levels"
	"github.com/Mubymubu/Iqtisad/tui"
)

func main() {
	var (
		level   = flag.String("level", levels.Level1, "level to play ("+strings.Join(levels.IDs(), ", ")+")")
		list    = flag.Bool("list", false, "list available levels and exit")
		dbPath  = flag.String("db", "iqtisad.db", "progress database file; empty disables saving")
		seed    = flag.Int64("seed", 0, "simulation seed; 0 uses the wall clock")
		logPath = flag.String("log", "", "write logs to this file; empty discards them")
	)
	flag.Parse()

	if *list {
		for _, id := range levels.IDs() {
			fmt.Println(id)
		}
		return
	}

	// The TUI owns the terminal, so logs go to a file or nowhere.
	logOut := io.Writer(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	cfg := game.DefaultConfig()
	cfg.LevelID = *level
	cfg.ProgressPath = *dbPath
	cfg.Seed = *seed

	g, err := game.NewGame(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "iqtisad: %v\n", err)
		os.Exit(1)
	}
	defer g.Close()

	// Later levels unlock by earning a star on the one before. With
	// persistence disabled there is nothing to check against, so all
	// levels stay open.
	if prev := levels.Previous(cfg.LevelID); prev != "" && g.Store != nil {
		if g.Session.BestStars(prev) == 0 {
			fmt.Fprintf(os.Stderr, "iqtisad: %s is locked; earn a star on %s first\n", cfg.LevelID, prev)
			g.Close()
			os.Exit(1)
		}
	}

	model := tui.NewModel(g.Session)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "iqtisad: %v\n", err)
		os.Exit(1)
	}
}
