// Package service installs "standup run" as a launchd user agent so the
// reminders and the end of day summary keep running after login.
package service

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
)

const Label = "com.standup.agent"

// Launchd manages the user agent plist. The zero value is not usable;
// build one with New.
type Launchd struct {
	Home    string // user home; plist and logs live under it
	BinPath string // binary the agent runs
	WorkDir string

	// launchctl runs launchctl; replaced in tests.
	launchctl func(args ...string) error
}

// New returns a manager for the current user running binPath. An empty
// binPath means the running executable.
func New(binPath, workDir string) (*Launchd, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home dir: %w", err)
	}
	if binPath == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolving executable path: %w", err)
		}
		if binPath, err = filepath.EvalSymlinks(exe); err != nil {
			return nil, fmt.Errorf("resolving symlinks: %w", err)
		}
	}
	return &Launchd{Home: home, BinPath: binPath, WorkDir: workDir, launchctl: launchctl}, nil
}

func (l *Launchd) PlistPath() string {
	return filepath.Join(l.Home, "Library", "LaunchAgents", Label+".plist")
}

func (l *Launchd) StdoutLog() string { return filepath.Join(l.Home, "Library", "Logs", "standup-stdout.log") }
func (l *Launchd) StderrLog() string { return filepath.Join(l.Home, "Library", "Logs", "standup-stderr.log") }

// Install writes the plist and loads it, replacing a loaded copy.
func (l *Launchd) Install(w io.Writer) error {
	plist, err := l.Plist()
	if err != nil {
		return fmt.Errorf("generating plist: %w", err)
	}

	path := l.PlistPath()
	if _, err := os.Stat(path); err == nil {
		_ = l.launchctl("unload", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating LaunchAgents dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.StdoutLog()), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(plist), 0o644); err != nil {
		return fmt.Errorf("writing plist: %w", err)
	}
	fmt.Fprintf(w, "wrote %s\n", path)

	if err := l.launchctl("load", path); err != nil {
		return fmt.Errorf("loading plist: %w", err)
	}
	fmt.Fprintln(w, "service loaded and will start on login")
	return nil
}

// Uninstall unloads and removes the plist. A missing plist is not an error.
func (l *Launchd) Uninstall(w io.Writer) error {
	path := l.PlistPath()
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(w, "service not installed")
		return nil
	}
	if err := l.launchctl("unload", path); err != nil {
		fmt.Fprintf(w, "warning: unload failed: %v\n", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing plist: %w", err)
	}
	fmt.Fprintf(w, "removed %s\n", path)
	return nil
}

func (l *Launchd) Start() error { return l.launchctl("start", Label) }
func (l *Launchd) Stop() error  { return l.launchctl("stop", Label) }

func (l *Launchd) Restart() error {
	_ = l.Stop()
	return l.Start()
}

// Loaded reports whether launchd knows the agent.
func (l *Launchd) Loaded() bool {
	return l.launchctl("list", Label) == nil
}

func launchctl(args ...string) error {
	cmd := exec.Command("launchctl", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("launchctl %s: %s", strings.Join(args, " "), msg)
	}
	return nil
}

var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{.Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{.BinPath}}</string>
		<string>run</string>
	</array>
	<key>WorkingDirectory</key>
	<string>{{.WorkDir}}</string>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>{{.StdoutLog}}</string>
	<key>StandardErrorPath</key>
	<string>{{.StderrLog}}</string>
</dict>
</plist>
`))

// Plist renders the agent definition.
func (l *Launchd) Plist() (string, error) {
	var buf bytes.Buffer
	err := plistTemplate.Execute(&buf, struct {
		Label, BinPath, WorkDir, StdoutLog, StderrLog string
	}{Label, l.BinPath, l.WorkDir, l.StdoutLog(), l.StderrLog()})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
