package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/text/unicode/norm"

	"github.com/ichiban/wam"
	"github.com/ichiban/wam/engine"
)

// Version is a version of this build.
var Version = "wam/0.1"

func main() {
	var (
		config  string
		verbose bool
		version bool
	)
	pflag.StringVarP(&config, "config", "c", "", `path to a YAML configuration`)
	pflag.BoolVarP(&verbose, "verbose", "v", false, `verbose`)
	pflag.BoolVar(&version, "version", false, `print version`)
	pflag.Parse()

	if version {
		fmt.Println(Version)
		return
	}

	cfg, err := loadConfig(config)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	oldState, err := terminal.MakeRaw(0)
	if err != nil {
		logrus.WithError(err).Fatal("failed to enter raw mode")
	}
	defer func() {
		_ = terminal.Restore(0, oldState)
	}()

	t := terminal.NewTerminal(os.Stdin, "?- ")
	defer fmt.Printf("\r\n")

	logrus.SetOutput(t)
	cfg.LogOutput = t

	s := wam.New(cfg)

	var buf strings.Builder
	for {
		if err := handleLine(&buf, s, t); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			logrus.WithError(err).Error("failed to handle line")
			return
		}
	}
}

func loadConfig(path string) (engine.Config, error) {
	if path == "" {
		return engine.DefaultConfig, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return engine.Config{}, err
	}
	defer f.Close()
	return engine.LoadConfig(f)
}

func handleLine(buf *strings.Builder, s *wam.Session, t *terminal.Terminal) error {
	if buf.Len() == 0 {
		t.SetPrompt("?- ")
	} else {
		t.SetPrompt("|  ")
	}

	line, err := t.ReadLine()
	if err != nil {
		if err == io.EOF {
			return err
		}
		logrus.WithError(err).Warn("failed to read line")
		buf.Reset()
		return nil
	}
	_, _ = buf.WriteString(norm.NFC.String(line))

	// Returns without resetting buf until the query is terminated.
	if !strings.HasSuffix(strings.TrimSpace(buf.String()), ".") {
		_, _ = buf.WriteRune('\n')
		return nil
	}
	defer buf.Reset()

	sol, err := s.Query(buf.String())
	switch {
	case err == nil:
		break
	case errors.Is(err, wam.ErrNoGoal):
		return nil
	default:
		var e engine.Exception
		if errors.As(err, &e) {
			_, err := fmt.Fprintf(t, "uncaught exception: %s\n", e)
			return err
		}
		logrus.WithError(err).Warn("failed to query")
		return nil
	}

	_, err = fmt.Fprintln(t, sol)
	return err
}
