package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nova-tracer/nova-tracer/internal/constants"
)

// File is a settings.json on disk.
type File struct {
	Path string
	now  func() time.Time
}

// NewFile returns a File for path.
func NewFile(path string) *File {
	return &File{Path: path, now: time.Now}
}

// Exists reports whether the settings file is present.
func (f *File) Exists() bool {
	_, err := os.Stat(f.Path)
	return err == nil
}

// Load reads and parses the file. A missing file yields an empty document
// and nil bytes.
func (f *File) Load() (*Document, []byte, error) {
	data, err := os.ReadFile(f.Path) // #nosec G304 - path comes from the user's own configuration
	if errors.Is(err, fs.ErrNotExist) {
		return NewDocument(), nil, nil
	}
	if err != nil {
		return nil, nil, ioError("read "+f.Path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return doc, data, nil
}

// Backup copies the current file next to itself with a timestamp suffix
// and returns the backup path. It returns "" when there is nothing to back
// up.
func (f *File) Backup() (string, error) {
	data, err := os.ReadFile(f.Path) // #nosec G304
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", ioError("read "+f.Path, err)
	}

	base := f.Path + constants.BackupInfix + f.now().Format(constants.BackupTimestamp)
	path := base
	for i := 1; ; i++ {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			break
		}
		path = fmt.Sprintf("%s.%d", base, i)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", ioError("write backup", err)
	}
	return path, nil
}

// Write replaces the file atomically with the encoded document. The
// previous permissions are kept; new files get 0600.
func (f *File) Write(doc *Document) error {
	data, err := doc.Encode()
	if err != nil {
		return ioError("encode settings", err)
	}
	return f.WriteBytes(data)
}

// WriteBytes replaces the file atomically with data.
func (f *File) WriteBytes(data []byte) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ioError("create directory", err)
	}

	mode := fs.FileMode(0o600)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return ioError("create temp file", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return ioError("write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return ioError("sync temp file", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return ioError("chmod temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return ioError("close temp file", err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		return ioError("replace "+f.Path, err)
	}
	return nil
}

// Lock takes an exclusive advisory lock next to the settings file. It
// fails with ErrLocked when another installer holds it.
func (f *File) Lock() (unlock func() error, err error) {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o750); err != nil {
		return nil, ioError("create directory", err)
	}
	l, err := acquireFileLock(f.Path + constants.LockSuffix)
	if err != nil {
		return nil, err
	}
	return l.Unlock, nil
}

// Backups returns existing backup files, oldest first.
func (f *File) Backups() ([]string, error) {
	dir := filepath.Dir(f.Path)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ioError("list "+dir, err)
	}

	prefix := filepath.Base(f.Path) + constants.BackupInfix
	pattern := escapeGlob(prefix) + "*"
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), constants.LockSuffix) {
			continue
		}
		ok, err := doublestar.Match(pattern, e.Name())
		if err != nil {
			return nil, fmt.Errorf("match backups: %w", err)
		}
		if ok {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return backupLess(strings.TrimPrefix(filepath.Base(out[i]), prefix), strings.TrimPrefix(filepath.Base(out[j]), prefix))
	})
	return out, nil
}

// escapeGlob quotes the characters doublestar treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\*?[]{}`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// backupLess orders backup suffixes "<timestamp>[.N]" by timestamp, then
// by collision counter, so ".10" sorts after ".2".
func backupLess(a, b string) bool {
	tsA, nA := splitBackupSuffix(a)
	tsB, nB := splitBackupSuffix(b)
	if tsA != tsB {
		return tsA < tsB
	}
	if nA != nB {
		return nA < nB
	}
	return a < b
}

func splitBackupSuffix(s string) (string, int) {
	i := strings.LastIndexByte(s, '.')
	if i < 0 {
		return s, 0
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil || n < 0 {
		return s, 0
	}
	return s[:i], n
}

// Prune deletes all but the newest keep backups and returns the removed
// paths. keep <= 0 disables pruning.
func (f *File) Prune(keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	backups, err := f.Backups()
	if err != nil {
		return nil, err
	}
	if len(backups) <= keep {
		return nil, nil
	}

	stale := backups[:len(backups)-keep]
	var removed []string
	for _, path := range stale {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, ioError("remove backup", err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}
