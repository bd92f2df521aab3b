package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath expands p the way todo_path and log_dir are expanded and
// makes it absolute against the project root. It is used for paths
// given on the command line too, so every task path is resolved alike.
func (c *Config) ResolvePath(p string) string {
	p = expandPath(p)
	if p == "" || filepath.IsAbs(p) || c.ProjectRoot == "" {
		return p
	}
	return filepath.Join(c.ProjectRoot, p)
}

// expandPath substitutes $VAR and ${VAR} and a leading ~ for the home
// directory.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
