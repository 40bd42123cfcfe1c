// Package lockfile implements FILE.lock — a session lock placed next to an
// open catalog so two editors never write the same file. The lock records
// who holds it; a lock whose process is gone is treated as stale and taken
// over.
package lockfile

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"
)

// Suffix is appended to the catalog path to form the lock path.
const Suffix = ".lock"

// Info identifies the lock holder.
type Info struct {
	PID     int    `yaml:"pid"`
	Host    string `yaml:"host"`
	Started string `yaml:"started"`
}

// Lock is a held session lock.
type Lock struct {
	path string
}

// HeldError is returned by Acquire when another live process holds the lock.
type HeldError struct {
	Path string
	Info Info
}

func (e *HeldError) Error() string {
	return fmt.Sprintf("%s is locked by pid %d on %s since %s",
		e.Path, e.Info.PID, e.Info.Host, e.Info.Started)
}

// Acquire takes the session lock for a catalog file. A leftover lock from a
// dead process on the same host is removed and retaken.
func Acquire(target string) (*Lock, error) {
	path := target + Suffix
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			host, _ := os.Hostname()
			data, merr := yaml.Marshal(Info{
				PID:     os.Getpid(),
				Host:    host,
				Started: time.Now().Format(time.RFC3339),
			})
			if merr == nil {
				_, merr = f.Write(data)
			}
			if cerr := f.Close(); merr == nil {
				merr = cerr
			}
			if merr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("writing %s: %w", path, merr)
			}
			return &Lock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
		info, rerr := read(path)
		if rerr != nil {
			// unreadable lock: do not guess, refuse
			return nil, fmt.Errorf("reading %s: %w", path, rerr)
		}
		if !stale(info) {
			return nil, &HeldError{Path: path, Info: info}
		}
		if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
			return nil, fmt.Errorf("removing stale %s: %w", path, rerr)
		}
	}
	return nil, fmt.Errorf("acquiring %s: lock keeps reappearing", path)
}

// Release removes the lock file.
func (l *Lock) Release() error {
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func read(path string) (Info, error) {
	var info Info
	data, err := os.ReadFile(path)
	if err != nil {
		return info, err
	}
	if err := yaml.Unmarshal(data, &info); err != nil {
		return info, err
	}
	return info, nil
}

// stale reports whether the holding process no longer exists. Locks from
// other hosts are never considered stale.
func stale(info Info) bool {
	host, _ := os.Hostname()
	if info.Host != host || info.PID <= 0 {
		return false
	}
	proc, err := os.FindProcess(info.PID)
	if err != nil {
		return true
	}
	return proc.Signal(syscall.Signal(0)) != nil
}
