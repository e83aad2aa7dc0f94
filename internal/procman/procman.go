// Package procman tracks spawned worker processes. Children are
// fire-and-forget: no restart policy, best-effort terminate on shutdown.
package procman

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

// Handle is a tracked child process.
type Handle struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// Pid returns the child's process id.
func (h *Handle) Pid() int { return h.cmd.Process.Pid }

// Done is closed once the child has exited and been reaped.
func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Manager owns the set of live child-process handles.
type Manager struct {
	log *zap.Logger

	mu    sync.Mutex
	procs []*Handle
}

// New creates an empty manager.
func New(log *zap.Logger) *Manager {
	return &Manager{log: log}
}

// Spawn launches a child process, tracks its handle, and prunes handles for
// children that have already exited.
func (m *Manager) Spawn(name string, args ...string) (*Handle, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", name, err)
	}

	h := &Handle{cmd: cmd, done: make(chan struct{})}
	go func() {
		cmd.Wait()
		close(h.done)
	}()

	m.mu.Lock()
	m.procs = append(m.procs, h)
	m.pruneLocked()
	m.mu.Unlock()

	m.log.Debug("spawned process", zap.String("cmd", name), zap.Int("pid", h.Pid()))
	return h, nil
}

// pruneLocked drops handles whose process has exited. Caller holds mu.
func (m *Manager) pruneLocked() {
	alive := m.procs[:0]
	for _, h := range m.procs {
		if !h.exited() {
			alive = append(alive, h)
		}
	}
	m.procs = alive
}

// Live returns the number of tracked handles believed to be running.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	return len(m.procs)
}

// CleanupAll sends a terminate signal to every still-live child. It does not
// wait for them to exit.
func (m *Manager) CleanupAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.procs {
		if h.exited() {
			continue
		}
		if err := h.cmd.Process.Signal(syscall.SIGTERM); err != nil && err != os.ErrProcessDone {
			m.log.Debug("terminate child", zap.Int("pid", h.Pid()), zap.Error(err))
		}
	}
	m.procs = nil
}
