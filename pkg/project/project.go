package project

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Project is a read-only view of a skills repository rooted at a directory
type Project struct {
	root   string
	fsys   fs.FS
	layout Layout
}

// Option is a function that configures a Project
type Option func(*Project) error

// WithRoot sets the project root directory
func WithRoot(dir string) Option {
	return func(p *Project) error {
		if dir == "" {
			return errors.New("project root must not be empty")
		}
		p.root = dir
		return nil
	}
}

// WithLayout overrides the artifact paths
func WithLayout(layout Layout) Option {
	return func(p *Project) error {
		p.layout = layout
		return nil
	}
}

// New creates a project view. Without options the current directory and the
// default layout are used.
func New(opts ...Option) (*Project, error) {
	p := &Project{
		root:   ".",
		layout: DefaultLayout(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, errors.Wrap(err, "failed to apply project option")
		}
	}

	info, err := os.Stat(p.root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat project root %s", p.root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("project root %s is not a directory", p.root)
	}

	p.fsys = os.DirFS(p.root)
	return p, nil
}

// Root returns the project root directory
func (p *Project) Root() string {
	return p.root
}

// Layout returns the configured artifact paths
func (p *Project) Layout() Layout {
	return p.layout
}

// ReadText returns the content of a project-relative file. Missing, unreadable
// and empty files are all reported as absent.
func (p *Project) ReadText(rel string) (string, bool) {
	content, err := fs.ReadFile(p.fsys, clean(rel))
	if err != nil || len(content) == 0 {
		return "", false
	}
	return string(content), true
}

// ReadJSON returns the raw bytes of a project-relative JSON file. Malformed JSON
// is reported as absent, the same as a missing file.
func (p *Project) ReadJSON(rel string) ([]byte, bool) {
	content, err := fs.ReadFile(p.fsys, clean(rel))
	if err != nil || len(content) == 0 {
		return nil, false
	}
	if !gjson.ValidBytes(content) {
		return nil, false
	}
	return content, true
}

// Exists reports whether a project-relative path exists
func (p *Project) Exists(rel string) bool {
	_, err := fs.Stat(p.fsys, clean(rel))
	return err == nil
}

// IsDir reports whether a project-relative path is a directory
func (p *Project) IsDir(rel string) bool {
	info, err := fs.Stat(p.fsys, clean(rel))
	return err == nil && info.IsDir()
}

// Abs returns the filesystem path of a project-relative path
func (p *Project) Abs(rel string) string {
	return filepath.Join(p.root, filepath.FromSlash(clean(rel)))
}

// clean turns a configured path into a valid io/fs path
func clean(rel string) string {
	rel = strings.ReplaceAll(rel, `\`, "/")
	cleaned := strings.TrimPrefix(path.Clean("/"+rel), "/")
	if cleaned == "" {
		return "."
	}
	return cleaned
}
