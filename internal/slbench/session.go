package slbench

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session groups the run directories and report files of one benchmark
// invocation under a single timestamped directory.
type Session struct {
	ID   string
	Path string
}

// NewSession creates the session directory under baseDir. The directory name
// combines a timestamp with a short unique suffix so repeated runs in the
// same second cannot collide.
func NewSession(baseDir string) (*Session, error) {
	id := strings.Split(uuid.NewString(), "-")[0]
	path := filepath.Join(baseDir, fmt.Sprintf("session_%s_%s", time.Now().Format("20060102_150405"), id))

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &Session{ID: id, Path: path}, nil
}

// ExperimentDir creates and returns a run directory for the named
// experiment, with patterns/ and captures/ subdirectories ready for the
// per-iteration artifacts.
func (s *Session) ExperimentDir(identifier string) (string, error) {
	dir := filepath.Join(s.Path, fmt.Sprintf("%s-%d", identifier, time.Now().UnixNano()))
	for _, d := range []string{dir, filepath.Join(dir, "patterns"), filepath.Join(dir, "captures")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return "", fmt.Errorf("create experiment directory: %w", err)
		}
	}
	return dir, nil
}
