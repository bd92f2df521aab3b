package scan

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink decides where processed output goes: a writer, one named file, or
// back over each source file.
type Sink struct {
	Stdout  io.Writer
	File    string // When set, all output goes to this file
	InPlace bool   // Rewrite each changed source file
}

// Write emits the output of every non-fatal result. Named files are
// replaced atomically.
func (s *Sink) Write(results []Result) error {
	switch {
	case s.InPlace:
		for i := range results {
			res := &results[i]
			if !res.Changed() {
				continue
			}
			if err := WriteFileAtomic(res.Path, []byte(res.Output), fileMode(res.Path)); err != nil {
				return fmt.Errorf("write %s: %w", res.Path, err)
			}
		}
		return nil
	case s.File != "":
		if err := WriteFileAtomic(s.File, collect(results), fileMode(s.File)); err != nil {
			return fmt.Errorf("write %s: %w", s.File, err)
		}
		return nil
	default:
		w := s.Stdout
		if w == nil {
			w = os.Stdout
		}
		_, err := w.Write(collect(results))
		return err
	}
}

func collect(results []Result) []byte {
	var buf bytes.Buffer
	for i := range results {
		if results[i].Fatal == nil {
			buf.WriteString(results[i].Output)
		}
	}
	return buf.Bytes()
}

// fileMode keeps the permissions of an existing file.
func fileMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0644
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
