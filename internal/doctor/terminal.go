package doctor

import (
	"context"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// TerminalCheck reports whether stdout can host the dashboard and which
// color profile it will get.
type TerminalCheck struct {
	IsTerminal func() bool
	Profile    func() termenv.Profile
}

// NewTerminalCheck inspects the process's stdout.
func NewTerminalCheck() *TerminalCheck {
	return &TerminalCheck{
		IsTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
		Profile:    func() termenv.Profile { return termenv.NewOutput(os.Stdout).Profile },
	}
}

func (c *TerminalCheck) Name() string     { return "terminal" }
func (c *TerminalCheck) Category() string { return CategoryTerminal }

func (c *TerminalCheck) Run(context.Context) CheckResult {
	if !c.IsTerminal() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "stdout is not a terminal; the dashboard will refuse to start",
			Suggestion: "Use 'healthboard check' in scripts and CI",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Interactive terminal, colors: " + profileName(c.Profile()),
	}
}

func (c *TerminalCheck) Fix() error {
	return nil
}

func profileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "true color"
	case termenv.ANSI256:
		return "256"
	case termenv.ANSI:
		return "16"
	default:
		return "none"
	}
}
