// Package xdg resolves configuration locations per the XDG Base Directory
// Specification.
package xdg

import (
	"os"
	"path/filepath"
)

type Dirs struct {
	configHome string
	configDirs []string
}

func New() *Dirs {
	d := &Dirs{}

	d.configHome = os.Getenv("XDG_CONFIG_HOME")
	if d.configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.Getenv("HOME")
		}
		if home != "" {
			d.configHome = filepath.Join(home, ".config")
		}
	}

	if env := os.Getenv("XDG_CONFIG_DIRS"); env != "" {
		d.configDirs = filepath.SplitList(env)
	} else {
		d.configDirs = []string{"/etc/xdg"}
	}
	return d
}

func (d *Dirs) ConfigHome() string {
	return d.configHome
}

// ConfigFiles lists the candidate paths of an application's config file,
// most important first. Only existing files are returned.
func (d *Dirs) ConfigFiles(app, name string) []string {
	var res []string
	dirs := append([]string{d.configHome}, d.configDirs...)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, app, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			res = append(res, p)
		}
	}
	return res
}
