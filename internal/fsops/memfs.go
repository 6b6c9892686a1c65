package fsops

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MemFS is an in-memory FS for tests. Paths are cleaned with filepath.Clean;
// the filesystem root always exists. Faults can be injected per operation
// and path with FailOn.
//
// MemFS is not safe for concurrent use.
type MemFS struct {
	nodes  map[string]*memNode
	faults map[string]error
}

type memNode struct {
	dir  bool
	data []byte
	mode os.FileMode
}

var errNotEmpty = errors.New("directory not empty")

// NewMemFS creates an empty MemFS.
func NewMemFS() *MemFS {
	root := filepath.Clean(string(filepath.Separator))
	return &MemFS{
		nodes:  map[string]*memNode{root: {dir: true, mode: fs.ModeDir | 0755}},
		faults: make(map[string]error),
	}
}

// AddDir creates a directory and its parents.
func (m *MemFS) AddDir(path string) {
	_ = m.mkdirAll(filepath.Clean(path))
}

// AddFile creates a file with data, creating parents as needed.
func (m *MemFS) AddFile(path string, data []byte) {
	path = filepath.Clean(path)
	_ = m.mkdirAll(filepath.Dir(path))
	m.nodes[path] = &memNode{data: append([]byte(nil), data...), mode: 0644}
}

// FailOn makes the next call of op ("mkdir", "move", "copy", "remove",
// "remove_all", "read_dir", "write") on path return err. The fault fires once.
func (m *MemFS) FailOn(op, path string, err error) {
	m.faults[op+" "+filepath.Clean(path)] = err
}

// Paths returns every path in the filesystem, sorted.
func (m *MemFS) Paths() []string {
	paths := make([]string, 0, len(m.nodes))
	for p := range m.nodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// IsDir reports whether path exists and is a directory.
func (m *MemFS) IsDir(path string) bool {
	n, ok := m.nodes[filepath.Clean(path)]
	return ok && n.dir
}

// Names returns the sorted names directly under a directory, or nil.
func (m *MemFS) Names(path string) []string {
	entries, err := m.ReadDir(path)
	if err != nil {
		return nil
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

func (m *MemFS) fault(op, path string) error {
	key := op + " " + path
	if err, ok := m.faults[key]; ok {
		delete(m.faults, key)
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func (m *MemFS) descendants(path string) []string {
	prefix := path
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	var out []string
	for p := range m.nodes {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (m *MemFS) mkdirAll(path string) error {
	if n, ok := m.nodes[path]; ok {
		if !n.dir {
			return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrInvalid}
		}
		return nil
	}
	parent := filepath.Dir(path)
	if parent != path {
		if err := m.mkdirAll(parent); err != nil {
			return err
		}
	}
	m.nodes[path] = &memNode{dir: true, mode: fs.ModeDir | 0755}
	return nil
}

// Lstat returns file info for path.
func (m *MemFS) Lstat(path string) (os.FileInfo, error) {
	path = filepath.Clean(path)
	n, ok := m.nodes[path]
	if !ok {
		return nil, &fs.PathError{Op: "lstat", Path: path, Err: fs.ErrNotExist}
	}
	return &memFileInfo{name: filepath.Base(path), node: n}, nil
}

// ReadDir lists a directory, sorted by name.
func (m *MemFS) ReadDir(path string) ([]Entry, error) {
	path = filepath.Clean(path)
	if err := m.fault("read_dir", path); err != nil {
		return nil, err
	}
	n, ok := m.nodes[path]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}
	if !n.dir {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrInvalid}
	}
	var entries []Entry
	for p, child := range m.nodes {
		if p != path && filepath.Dir(p) == path {
			entries = append(entries, Entry{Name: filepath.Base(p), IsDir: child.dir})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Mkdir creates a single directory.
func (m *MemFS) Mkdir(path string, perm os.FileMode) error {
	path = filepath.Clean(path)
	if err := m.fault("mkdir", path); err != nil {
		return err
	}
	if _, ok := m.nodes[path]; ok {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
	}
	parent, ok := m.nodes[filepath.Dir(path)]
	if !ok {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrNotExist}
	}
	if !parent.dir {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrInvalid}
	}
	m.nodes[path] = &memNode{dir: true, mode: fs.ModeDir | perm}
	return nil
}

// MkdirAll creates a directory and all parent directories.
func (m *MemFS) MkdirAll(path string, perm os.FileMode) error {
	path = filepath.Clean(path)
	if err := m.fault("mkdir", path); err != nil {
		return err
	}
	return m.mkdirAll(path)
}

// Move relocates src and everything beneath it to dst.
func (m *MemFS) Move(src, dst string) error {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if err := m.fault("move", src); err != nil {
		return err
	}
	if _, ok := m.nodes[src]; !ok {
		return &os.LinkError{Op: "move", Old: src, New: dst, Err: fs.ErrNotExist}
	}
	if _, ok := m.nodes[dst]; ok {
		return &os.LinkError{Op: "move", Old: src, New: dst, Err: fs.ErrExist}
	}
	if parent, ok := m.nodes[filepath.Dir(dst)]; !ok || !parent.dir {
		return &os.LinkError{Op: "move", Old: src, New: dst, Err: fs.ErrNotExist}
	}
	if IsWithin(src, dst) {
		return &os.LinkError{Op: "move", Old: src, New: dst, Err: fs.ErrInvalid}
	}

	for _, p := range m.descendants(src) {
		m.nodes[dst+strings.TrimPrefix(p, src)] = m.nodes[p]
		delete(m.nodes, p)
	}
	m.nodes[dst] = m.nodes[src]
	delete(m.nodes, src)
	return nil
}

// Copy copies a file or directory tree, creating parents of dst.
func (m *MemFS) Copy(src, dst string) error {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if err := m.fault("copy", src); err != nil {
		return err
	}
	n, ok := m.nodes[src]
	if !ok {
		return &fs.PathError{Op: "copy", Path: src, Err: fs.ErrNotExist}
	}
	if IsWithin(src, dst) && src != dst && n.dir {
		return &fs.PathError{Op: "copy", Path: dst, Err: fs.ErrInvalid}
	}
	if err := m.mkdirAll(filepath.Dir(dst)); err != nil {
		return err
	}
	if !n.dir {
		m.nodes[dst] = &memNode{data: append([]byte(nil), n.data...), mode: n.mode}
		return nil
	}
	if err := m.mkdirAll(dst); err != nil {
		return err
	}
	for _, p := range m.descendants(src) {
		child := m.nodes[p]
		target := dst + strings.TrimPrefix(p, src)
		if child.dir {
			if err := m.mkdirAll(target); err != nil {
				return err
			}
			continue
		}
		m.nodes[target] = &memNode{data: append([]byte(nil), child.data...), mode: child.mode}
	}
	return nil
}

// Remove removes a file or empty directory.
func (m *MemFS) Remove(path string) error {
	path = filepath.Clean(path)
	if err := m.fault("remove", path); err != nil {
		return err
	}
	if _, ok := m.nodes[path]; !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	if len(m.descendants(path)) > 0 {
		return &fs.PathError{Op: "remove", Path: path, Err: errNotEmpty}
	}
	delete(m.nodes, path)
	return nil
}

// RemoveAll removes path and everything beneath it. Missing paths are not an error.
func (m *MemFS) RemoveAll(path string) error {
	path = filepath.Clean(path)
	if err := m.fault("remove_all", path); err != nil {
		return err
	}
	for _, p := range m.descendants(path) {
		delete(m.nodes, p)
	}
	delete(m.nodes, path)
	return nil
}

// Exists checks if a path exists.
func (m *MemFS) Exists(path string) (bool, error) {
	_, ok := m.nodes[filepath.Clean(path)]
	return ok, nil
}

// AtomicWrite stores data at path, creating parents.
func (m *MemFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	path = filepath.Clean(path)
	if err := m.fault("write", path); err != nil {
		return err
	}
	if err := m.mkdirAll(filepath.Dir(path)); err != nil {
		return err
	}
	m.nodes[path] = &memNode{data: append([]byte(nil), data...), mode: perm}
	return nil
}

// ReadFile returns a copy of the file contents.
func (m *MemFS) ReadFile(path string) ([]byte, error) {
	path = filepath.Clean(path)
	n, ok := m.nodes[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if n.dir {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrInvalid}
	}
	return append([]byte(nil), n.data...), nil
}

// memFileInfo implements os.FileInfo
type memFileInfo struct {
	name string
	node *memNode
}

func (i *memFileInfo) Name() string       { return i.name }
func (i *memFileInfo) Size() int64        { return int64(len(i.node.data)) }
func (i *memFileInfo) Mode() os.FileMode  { return i.node.mode }
func (i *memFileInfo) ModTime() time.Time { return time.Time{} }
func (i *memFileInfo) IsDir() bool        { return i.node.dir }
func (i *memFileInfo) Sys() interface{}   { return nil }
