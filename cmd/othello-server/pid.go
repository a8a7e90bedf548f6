// FILE: othello/cmd/othello-server/pid.go
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// pidFile is a written PID file, optionally held under an exclusive flock
type pidFile struct {
	path   string
	file   *os.File
	locked bool
}

// acquirePIDFile writes the current PID to path. With lock set, an
// existing file is only replaced when its process is gone.
func acquirePIDFile(path string, lock bool) (*pidFile, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("cannot create PID file: %w", err)
		}
		if lock {
			if err := checkExistingPID(path); err != nil {
				return nil, err
			}
		}
		if file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644); err != nil {
			return nil, fmt.Errorf("cannot open PID file: %w", err)
		}
	}

	p := &pidFile{path: path, file: file}

	if lock {
		if err = syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
			file.Close()
			if errors.Is(err, syscall.EWOULDBLOCK) {
				return nil, fmt.Errorf("cannot acquire lock: another instance is running")
			}
			return nil, fmt.Errorf("lock failed: %w", err)
		}
		p.locked = true
	}

	if _, err = fmt.Fprintf(file, "%d\n", os.Getpid()); err == nil {
		err = file.Sync()
	}
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("cannot write PID: %w", err)
	}

	return p, nil
}

// Release unlocks and removes the PID file
func (p *pidFile) Release() {
	if p.locked {
		syscall.Flock(int(p.file.Fd()), syscall.LOCK_UN)
	}
	p.file.Close()
	os.Remove(p.path)
}

// readPID parses the process ID stored in path
func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("cannot read existing PID file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("corrupted PID file (contains: %q)", data)
	}
	return pid, nil
}

// checkExistingPID allows reuse of a PID file whose process has exited
func checkExistingPID(path string) error {
	pid, err := readPID(path)
	if err != nil {
		return err
	}

	// FindProcess never fails on Unix; signal 0 probes for existence
	proc, _ := os.FindProcess(pid)
	err = proc.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return fmt.Errorf("process %d is running but not holding lock", pid)
	case errors.Is(err, os.ErrProcessDone), errors.Is(err, syscall.ESRCH):
		return nil
	default:
		return fmt.Errorf("process %d exists but cannot verify ownership: %v", pid, err)
	}
}
