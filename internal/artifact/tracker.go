package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/kingrea/graft/internal/task"
)

// DefaultExtension is appended to a task ID to name its artifact.
const DefaultExtension = ".output"

// Tracker maps registry tasks to artifact paths under one directory.
type Tracker struct {
	fs  afero.Fs
	dir string
	ext string
}

// TrackerOption customizes a Tracker during construction.
type TrackerOption func(*Tracker)

// WithFs overrides the filesystem, mainly for tests.
func WithFs(fsys afero.Fs) TrackerOption {
	return func(t *Tracker) {
		if fsys != nil {
			t.fs = fsys
		}
	}
}

// WithExtension overrides the artifact file extension.
func WithExtension(ext string) TrackerOption {
	return func(t *Tracker) {
		t.ext = ext
	}
}

// NewTracker builds a tracker rooted at dir on the OS filesystem.
func NewTracker(dir string, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		fs:  afero.NewOsFs(),
		dir: dir,
		ext: DefaultExtension,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Dir returns the artifact directory.
func (t *Tracker) Dir() string {
	return t.dir
}

// Path resolves the artifact path of a task.
func (t *Tracker) Path(d task.Descriptor) string {
	return d.ArtifactPath(t.dir, t.ext)
}

// Check stats every task's artifact in registry order.
func (t *Tracker) Check(reg task.Registry) []Status {
	tasks := reg.Tasks()
	statuses := make([]Status, 0, len(tasks))
	for _, d := range tasks {
		statuses = append(statuses, t.check(d))
	}
	return statuses
}

func (t *Tracker) check(d task.Descriptor) Status {
	path := t.Path(d)
	info, err := t.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return Status{Task: d, Path: path, State: StatePending}
		}
		return Status{Task: d, Path: path, State: StateError, Err: err}
	}
	if info.IsDir() {
		return Status{Task: d, Path: path, State: StateError, Err: fmt.Errorf("artifact: expected file got directory")}
	}
	return Status{Task: d, Path: path, State: StateCompleted}
}

// Read returns the artifact text. Invalid UTF-8 sequences are dropped and a
// leading byte order mark is stripped.
func (t *Tracker) Read(path string) (string, error) {
	data, err := afero.ReadFile(t.fs, path)
	if err != nil {
		return "", fmt.Errorf("artifact: read %s: %w", path, err)
	}
	return decode(data), nil
}

func decode(data []byte) string {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	return strings.TrimPrefix(text, "\uFEFF")
}
