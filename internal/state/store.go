package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/flock"

	"github.com/danieljhkim/assetgate/internal/clock"
	"github.com/danieljhkim/assetgate/internal/fsops"
)

// WarningKind classifies a recoverable problem with the override file.
type WarningKind int

const (
	WarnMissingFile WarningKind = iota
	WarnParseError
	WarnSchemaValidation
)

// Warning explains why the loader substituted a default override file.
type Warning struct {
	Kind    WarningKind
	Details []string
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnMissingFile:
		return "No enablement file found; starting from a disabled baseline."
	case WarnParseError:
		return "Failed to parse enablement file: " + strings.Join(w.Details, ", ")
	case WarnSchemaValidation:
		return "Enablement file failed schema validation: " + strings.Join(w.Details, ", ")
	}
	return "unknown enablement warning"
}

// LoadResult is the override file plus any warning raised while reading it.
// Malformed files never surface as errors; they become the default file.
type LoadResult struct {
	File     *OverrideFile
	Warnings []Warning
}

// Store persists the override file.
type Store interface {
	Load() (*LoadResult, error)
	Save(file *OverrideFile) error
}

// FileStore keeps the override file as pretty-printed JSON and serializes
// access across processes with an advisory lock file.
type FileStore struct {
	fs       fsops.FS
	clock    clock.Clock
	path     string
	lockPath string
	validate *validator.Validate
}

// NewFileStore creates a FileStore for the file at path guarded by lockPath.
func NewFileStore(fs fsops.FS, clk clock.Clock, path, lockPath string) *FileStore {
	return &FileStore{
		fs:       fs,
		clock:    clk,
		path:     path,
		lockPath: lockPath,
		validate: validator.New(),
	}
}

// Path returns the location of the override file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the override file under a shared lock.
func (s *FileStore) Load() (*LoadResult, error) {
	unlock, err := s.lock(false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &LoadResult{
				File:     NewOverrideFile(),
				Warnings: []Warning{{Kind: WarnMissingFile}},
			}, nil
		}
		return nil, fmt.Errorf("failed to read enablement file %s: %w", s.path, err)
	}
	return s.parse(data), nil
}

func (s *FileStore) parse(data []byte) *LoadResult {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var file OverrideFile
	if err := dec.Decode(&file); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) || strings.Contains(err.Error(), "unknown field") {
			return defaultWith(WarnSchemaValidation, err.Error())
		}
		return defaultWith(WarnParseError, err.Error())
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return defaultWith(WarnParseError, "unexpected data after top-level object")
	}
	if err := s.validate.Struct(&file); err != nil {
		return defaultWith(WarnSchemaValidation, validationDetails(err)...)
	}

	file.normalize()
	return &LoadResult{File: &file}
}

func defaultWith(kind WarningKind, details ...string) *LoadResult {
	return &LoadResult{
		File:     NewOverrideFile(),
		Warnings: []Warning{{Kind: kind, Details: details}},
	}
}

func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return out
}

// Save stamps updated_at, validates, and writes the file atomically under an
// exclusive lock.
func (s *FileStore) Save(file *OverrideFile) error {
	file.normalize()
	now := s.clock.Now().UTC()
	file.UpdatedAt = &now

	if err := s.validate.Struct(file); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOverrides, strings.Join(validationDetails(err), "; "))
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal enablement file: %w", err)
	}
	data = append(data, '\n')

	unlock, err := s.lock(true)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write enablement file: %w", err)
	}
	return nil
}

// lock takes the advisory lock without blocking. A held lock means another
// assetgate process is writing.
func (s *FileStore) lock(exclusive bool) (func(), error) {
	if s.lockPath == "" {
		return func() {}, nil
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.lockPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	l := flock.New(s.lockPath)
	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = l.TryLock()
	} else {
		locked, err = l.TryRLock()
	}
	if err != nil {
		return nil, fmt.Errorf("cannot acquire enablement lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock: %s)", ErrLocked, s.lockPath)
	}
	return func() { _ = l.Unlock() }, nil
}
