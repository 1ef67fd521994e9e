// Package browser opens article links with the desktop's default handler.
package browser

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

//go:embed openers.toml
var openersTOML []byte

var ErrNoOpener = errors.New("no application found to open links")

type platformConfig struct {
	Commands []string `toml:"commands"`
}

type openersConfig struct {
	Platforms map[string]platformConfig `toml:"platforms"`
}

// Launcher starts an external program for a URL.
type Launcher struct {
	opener   string
	lookPath func(string) (string, error)
	command  func(name string, args ...string) *exec.Cmd
}

// NewLauncher uses opener when set, otherwise the first platform default
// found on PATH.
func NewLauncher(opener string) *Launcher {
	l := &Launcher{
		lookPath: exec.LookPath,
		command:  exec.Command,
	}
	if opener != "" {
		l.opener = opener
		return l
	}
	l.opener = l.findCommand(defaultCommands(runtime.GOOS)...)
	return l
}

// Opener reports the command used, or "" when none was found.
func (l *Launcher) Opener() string { return l.opener }

func defaultCommands(goos string) []string {
	var cfg openersConfig
	if err := toml.Unmarshal(openersTOML, &cfg); err != nil {
		return []string{"open"}
	}
	if p, ok := cfg.Platforms[goos]; ok {
		return p.Commands
	}
	return cfg.Platforms["fallback"].Commands
}

func (l *Launcher) findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := l.lookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}

// Open starts the opener detached. Only http and https links are opened.
func (l *Launcher) Open(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http(s) link", link)
	}
	if l.opener == "" {
		return ErrNoOpener
	}

	cmd := l.command(l.opener, u.String())
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}
