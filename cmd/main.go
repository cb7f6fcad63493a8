// Package main implements a terminal UI that switches the Wi-Fi network of a
// macOS interface to one of its preferred networks, taking the password from
// a pass(1) store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"wifiswitch/config"
	"wifiswitch/wifictl"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Application crashed: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.DebugLog != "" {
		logFile, err := tea.LogToFile(cfg.DebugLog, "debug")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not create log file: %v\n", err)
		} else {
			defer logFile.Close()
		}
	} else {
		log.SetOutput(io.Discard)
	}
	log.Printf("Starting on interface %s (store %s, entry %s)", cfg.Interface, cfg.StoreDir, cfg.PassEntry)

	client := wifictl.NewClient(wifictl.ExecRunner{}, cfg.ClientOptions())
	if err := client.CheckTools(); err != nil {
		return fmt.Errorf("%w\nThis application requires networksetup and pass to function", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	program := tea.NewProgram(initialModel(ctx, client), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err := exitError(err); err != nil {
		return err
	}
	if m, ok := final.(model); ok && m.switched != "" {
		fmt.Printf("🟢 Network changed to %s\n", m.switched)
	}
	return nil
}

// exitError maps the program's exit error to the command's result. A program
// cancelled by SIGINT/SIGTERM ends like a quit.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		log.Println("Program stopped by signal")
		return nil
	}
	return fmt.Errorf("error running application: %w", err)
}
