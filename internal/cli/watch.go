package cli

import (
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rileyhilliard/healthboard/internal/config"
	"github.com/rileyhilliard/healthboard/internal/errors"
	"github.com/rileyhilliard/healthboard/internal/health"
	"github.com/rileyhilliard/healthboard/internal/logger"
	"github.com/rileyhilliard/healthboard/internal/monitor"
)

// defaultLogFile receives log output while the dashboard owns the terminal
// and HEALTHBOARD_DEBUG is set.
const defaultLogFile = "healthboard.log"

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	ConfigPath string
	Interval   time.Duration // overrides the config interval when > 0
	LogFile    string
	NoReload   bool
}

// Watch runs the interactive dashboard until the user quits.
func Watch(opts WatchOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'healthboard check' for scripts and CI.")
	}

	cfg, path, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Interval > 0 {
		cfg.Interval = opts.Interval
	}

	log, closeLog, err := watchLogger(opts.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	engine, err := cfg.Engine(log)
	if err != nil {
		return err
	}
	sched, err := health.NewScheduler(engine.Options)
	if err != nil {
		return err
	}

	model := monitor.NewModel(sched, config.IntervalChoices)
	defer model.Close()

	if err := sched.Start(engine.Interval); err != nil {
		return err
	}
	defer sched.Stop()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if path != "" && !opts.NoReload {
		w, err := config.Watch(path, log, func(next *config.Config) {
			applyReload(sched, next, opts.Interval == 0, log)
			p.Send(monitor.SettingsChangedMsg{Source: filepath.Base(path)})
		})
		if err != nil {
			log.Warn("config reload disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrSchedule,
			"Dashboard exited unexpectedly",
			"Set HEALTHBOARD_DEBUG=1 and check "+defaultLogFile+" for details.")
	}
	return nil
}

// reloadTarget is the part of the scheduler a config reload touches.
type reloadTarget interface {
	SetClassifier(c health.Classifier)
	SetInterval(interval time.Duration) error
}

// applyReload pushes reloaded thresholds, and the interval unless it was
// pinned on the command line. The service set is fixed for the session.
func applyReload(target reloadTarget, next *config.Config, applyInterval bool, log logger.Logger) {
	target.SetClassifier(next.Classifier())
	if !applyInterval {
		return
	}
	if err := target.SetInterval(next.Interval); err != nil {
		log.Warn("keeping previous interval: %v", err)
	}
}

// watchLogger routes logs to a file, since the terminal belongs to the
// dashboard. Without a file (and without debug) logging is discarded.
func watchLogger(path string) (logger.Logger, func(), error) {
	if path == "" && logger.DebugEnabled() {
		path = defaultLogFile
	}
	if path == "" {
		return logger.Noop(), func() {}, nil
	}

	f, err := tea.LogToFile(path, "healthboard")
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't open log file "+path,
			"Check the directory exists and is writable, or omit --log-file.")
	}
	return logger.NewEnvLogger("[watch]"), func() { _ = f.Close() }, nil
}
