// Package output places recordings and screenshots on a filesystem using
// a <year-month>/<day-time> layout.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/hashicorp/go-multierror"
)

const (
	dirLayout  = "2006-01"
	fileLayout = "02-03_04_05_PM"

	// maxSuffix bounds the search for a free file name.
	maxSuffix = 1000
)

// Layout creates timestamped files on fs.
type Layout struct {
	fs  billy.Filesystem
	now func() time.Time
}

// New returns a layout rooted at fs.
func New(fs billy.Filesystem) *Layout {
	return &Layout{fs: fs, now: time.Now}
}

// NewDir returns a layout rooted at the OS directory dir.
func NewDir(dir string) *Layout {
	return New(osfs.New(dir))
}

// Root is the root of the underlying filesystem.
func (l *Layout) Root() string {
	return l.fs.Root()
}

// Name returns the relative path for a file stamped t with extension ext.
func Name(t time.Time, ext string) string {
	return path.Join(t.Format(dirLayout), t.Format(fileLayout)+"."+ext)
}

// Create opens a new file for the current time. When the name is taken a
// "-N" suffix is appended. The month directory is created on demand.
func (l *Layout) Create(ext string) (billy.File, string, error) {
	t := l.now()
	dir := t.Format(dirLayout)
	if err := l.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create directory %q: %w", dir, err)
	}
	base := t.Format(fileLayout)
	for i := 0; i < maxSuffix; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s-%d", base, i)
		}
		p := path.Join(dir, name+"."+ext)
		f, err := l.fs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		switch {
		case err == nil:
			return f, p, nil
		case errors.Is(err, os.ErrExist):
			continue
		default:
			return nil, "", fmt.Errorf("create %q: %w", p, err)
		}
	}
	return nil, "", fmt.Errorf("no free name for %s/%s.%s", dir, base, ext)
}

// Write creates a new file and fills it with write. A failed write removes
// the partial file. It returns the path relative to Root.
func (l *Layout) Write(ext string, write func(w io.Writer) error) (string, error) {
	f, p, err := l.Create(ext)
	if err != nil {
		return "", err
	}
	err = write(f)
	if cerr := f.Close(); cerr != nil {
		err = multierror.Append(err, fmt.Errorf("close %q: %w", p, cerr)).ErrorOrNil()
	}
	if err != nil {
		if rerr := l.fs.Remove(p); rerr != nil {
			err = multierror.Append(err, fmt.Errorf("remove %q: %w", p, rerr))
		}
		return "", err
	}
	return p, nil
}
