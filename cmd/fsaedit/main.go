// Command fsaedit is a terminal canvas for sketching and animating finite
// state automata.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/pflag"

	"github.com/ha1tch/fsa-sketch/internal/config"
	"github.com/ha1tch/fsa-sketch/internal/logging"
	"github.com/ha1tch/fsa-sketch/internal/session"
)

func main() {
	configPath := pflag.String("config", config.Path(), "settings file")
	saveConfig := pflag.Bool("save-config", false, "write the effective settings to --config and exit")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fsaedit [flags] [SCRIPT]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *saveConfig {
		if err := config.Save(*configPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved %s\n", *configPath)
		return
	}

	log, closeLog, err := openLog(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	ed := NewEditor(screen, cfg, log)
	if script := pflag.Arg(0); script != "" {
		if err := ed.loadScript(script); err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", script, err)
			os.Exit(1)
		}
	}

	ed.run()

	screen.Fini()
}

// openLog builds the editor logger. Without a log file the editor logs
// nowhere, since the terminal belongs to the canvas.
func openLog(cfg config.Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return logging.NewNop(), func() {}, nil
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.NewWriter(f, level), func() { f.Close() }, nil
}

// loadScript runs a file of session commands against the editor's model.
func (ed *Editor) loadScript(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ed.execScript(f)
}

func (ed *Editor) execScript(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		err := ed.sess.Exec(sc.Text())
		if errors.Is(err, session.ErrQuit) {
			break
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	ed.out.Reset()
	ed.driver.Highlight("")
	return sc.Err()
}
