package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the durable backing of a Buffer: an ordered list of commands.
type Store interface {
	// Load returns every stored command, oldest first.
	Load() ([]string, error)
	// Append durably adds one command.
	Append(cmd string) error
	// Truncate removes every stored command.
	Truncate() error
	Close() error
}

// FileStore keeps one command per line in a plain text file. Newlines and
// backslashes inside a command are escaped so multi-line statements still
// occupy a single line.
type FileStore struct {
	path string
}

// NewFileStore returns a store for path. The file is created on first append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the file. A missing file is an empty history.
func (s *FileStore) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var cmds []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmds = append(cmds, unescapeLine(line))
	}
	return cmds, nil
}

// Append adds cmd to the end of the file.
func (s *FileStore) Append(cmd string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	if _, err := f.WriteString(escapeLine(cmd) + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to append history: %w", err)
	}
	return f.Close()
}

// Truncate empties the file if it exists.
func (s *FileStore) Truncate() error {
	err := os.Truncate(s.path, 0)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to truncate history file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is only held open during Append.
func (s *FileStore) Close() error { return nil }

var (
	lineEscaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	lineUnescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n")
)

func escapeLine(cmd string) string   { return lineEscaper.Replace(cmd) }
func unescapeLine(line string) string { return lineUnescaper.Replace(line) }
