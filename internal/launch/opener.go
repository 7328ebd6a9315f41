// Package launch opens the service's web interface in the user's browser.
package launch

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Starter starts a detached process.
type Starter func(name string, args ...string) error

type Opener struct {
	command string
	goos    string
	start   Starter
}

// NewOpener returns an opener that runs command, or the platform default
// when command is empty.
func NewOpener(command string) *Opener {
	return &Opener{command: command, goos: runtime.GOOS, start: startDetached}
}

// DefaultCommand returns the platform's URL opener.
func DefaultCommand(goos string) string {
	switch goos {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// Command returns the program and arguments that Open would run for target.
func (o *Opener) Command(target string) (string, []string) {
	name := o.command
	if name == "" {
		name = DefaultCommand(o.goos)
	}
	// start is a cmd.exe builtin; the empty argument is the window title.
	if name == "start" {
		return "cmd", []string{"/c", "start", "", target}
	}
	return name, []string{target}
}

// Open launches target. Only absolute http and https URLs are accepted.
func (o *Opener) Open(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", target)
	}

	name, args := o.Command(u.String())
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
