// Package swayidle builds the argument list for the external swayidle
// monitor and defines the signal contract between its hooks and the
// daemon.
package swayidle

import (
	"context"
	"fmt"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/nodech/sway-matiane/internal/proc"
)

// restartDelay is deliberately shorter than the supervisor default: a
// dead idle monitor means lost lock/idle transitions.
const restartDelay = 100 * time.Millisecond

// Hook is one swayidle hook specification.
type Hook interface {
	hookArgs() []string
}

// BeforeSleep runs Command when the session is about to sleep or lock.
type BeforeSleep struct {
	Command string
}

func (h BeforeSleep) hookArgs() []string {
	return []string{"before-sleep", h.Command}
}

// AfterResume runs Command when the session resumes.
type AfterResume struct {
	Command string
}

func (h AfterResume) hookArgs() []string {
	return []string{"after-resume", h.Command}
}

// Timeout runs Command after Seconds of inactivity and, when Resume is
// set, Resume on the first activity afterwards.
type Timeout struct {
	Seconds uint32
	Command string
	Resume  string
}

func (h Timeout) hookArgs() []string {
	args := []string{"timeout", strconv.FormatUint(uint64(h.Seconds), 10), h.Command}
	if h.Resume != "" {
		args = append(args, "resume", h.Resume)
	}
	return args
}

// SwayIdle composes an argv for the idle monitor from hooks, appended in
// order.
type SwayIdle struct {
	path string
	args []string
}

// New returns a builder for the monitor at path ("swayidle" when empty).
func New(path string) *SwayIdle {
	if path == "" {
		path = "swayidle"
	}
	return &SwayIdle{path: path}
}

// Add appends a hook's arguments.
func (s *SwayIdle) Add(hooks ...Hook) *SwayIdle {
	for _, h := range hooks {
		s.args = append(s.args, h.hookArgs()...)
	}
	return s
}

// Args returns the composed argument list.
func (s *SwayIdle) Args() []string {
	return s.args
}

// Spawn supervises the monitor under ctx.
func (s *SwayIdle) Spawn(ctx context.Context) *proc.RunningHandle {
	return proc.RunAlways(ctx, proc.AlwaysCommandOptions{
		Name:         s.path,
		Args:         s.args,
		RestartDelay: restartDelay,
	})
}

// sigRTMin is glibc's SIGRTMIN on Linux; the first two kernel realtime
// signals are reserved by the threading runtime.
const sigRTMin = syscall.Signal(34)

// Signals the hooks send back to the daemon's pid.
var (
	// SignalLock: session locked or going to sleep.
	SignalLock = unix.SIGUSR1
	// SignalUnlock: session unlocked or resumed.
	SignalUnlock = unix.SIGUSR2
	// SignalIdle: idle timeout reached.
	SignalIdle = sigRTMin + 1
	// SignalActive: resumed from idle.
	SignalActive = sigRTMin + 2
)

// killCommand builds the shell command a hook runs to signal the daemon.
// Signals are sent by number so the hook shell and the daemon cannot
// disagree on realtime signal names.
func killCommand(sig syscall.Signal, pid int) string {
	return fmt.Sprintf("kill -%d %d", int(sig), pid)
}

// DaemonHooks returns the three hooks the daemon installs: lock/unlock
// around sleep, and an idle timeout with a resume counterpart. Each hook
// signals pid per the contract above.
func DaemonHooks(pid int, idleTimeout uint32) []Hook {
	return []Hook{
		BeforeSleep{Command: killCommand(SignalLock, pid)},
		AfterResume{Command: killCommand(SignalUnlock, pid)},
		Timeout{
			Seconds: idleTimeout,
			Command: killCommand(SignalIdle, pid),
			Resume:  killCommand(SignalActive, pid),
		},
	}
}
