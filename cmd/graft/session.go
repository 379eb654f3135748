package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kingrea/graft/internal/config"
	"github.com/kingrea/graft/internal/extract"
	"github.com/kingrea/graft/internal/integrate"
	"github.com/kingrea/graft/internal/logbook"
	"github.com/kingrea/graft/internal/logging"
)

// session bundles everything a command needs after configuration is loaded.
type session struct {
	cfg     *config.Config
	logger  *logging.Logger
	journal *logbook.Logbook
}

var current *session

// openSession loads configuration and opens the log files. Failing to open a
// log file only downgrades logging; it never stops a run.
func openSession() (*session, error) {
	dir := projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		dir = cwd
	}
	cfg, err := config.Load(dir, configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogsDir(), logging.Options{Verbose: verbose, Stderr: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (continuing without a log file)\n", err)
		logger = logging.Discard()
	}
	journal, err := logbook.New(filepath.Join(cfg.LogsDir(), logbook.FileName))
	if err != nil {
		logger.Warn("run journal disabled", "err", err)
		journal = nil
	}
	logger.Debug("config loaded", "source", cfg.Source, "artifacts", cfg.ArtifactsDir(), "fence", cfg.Project.Fence)

	current = &session{cfg: cfg, logger: logger, journal: journal}
	return current, nil
}

func closeSession() {
	if current == nil {
		return
	}
	_ = current.logger.Close()
	current = nil
}

// runner wires an integrate.Runner from the loaded configuration.
func (s *session) runner(out io.Writer) (*integrate.Runner, error) {
	reg, err := s.cfg.Registry()
	if err != nil {
		return nil, err
	}
	rules, err := s.cfg.Rules()
	if err != nil {
		return nil, err
	}
	rename := s.cfg.Project.Rename
	return integrate.New(integrate.Options{
		Registry:  reg,
		Tracker:   s.cfg.Tracker(),
		Extractor: extract.New(s.cfg.Project.Fence),
		Rules:     rules,
		Out:       out,
		Logger:    s.logger,
		Journal:   s.journal,
		Title:     fmt.Sprintf("graft: integrating task outputs (%s → %s)", rename.From, rename.To),
		NextSteps: s.cfg.Project.NextSteps,
	})
}

// openRunner loads the session and builds its runner.
func openRunner(out io.Writer) (*integrate.Runner, error) {
	s, err := openSession()
	if err != nil {
		return nil, err
	}
	return s.runner(out)
}
