package load

import (
	"bytes"
	"errors"
	"io/fs"
	"path"
	"strings"

	"github.com/r-james-dev/wasmpy/wasm"
)

var ErrModuleNotFound = errors.New("module not found")

// FSResolver finds modules by dotted name in a file system: a.b.c is read
// from a/b/c.wasm. Each module is decoded at most once per resolver. An
// FSResolver is not safe for concurrent use.
type FSResolver struct {
	fs      fs.FS
	options []Option
	hosts   map[string]*Host
}

func NewFSResolver(fsys fs.FS, opts ...Option) *FSResolver {
	return &FSResolver{fs: fsys, options: opts, hosts: map[string]*Host{}}
}

// ModulePath returns the path of the binary for the given dotted module name.
func ModulePath(fullname string) string {
	return path.Join(strings.Split(fullname, ".")...) + ".wasm"
}

func (r *FSResolver) loadModule(name string) (*wasm.Module, error) {
	data, err := fs.ReadFile(r.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}
	o := newOptions(r.options)
	return LoadModule(bytes.NewReader(data), o.decode...)
}

// ResolveModule returns the host for the named module, decoding it on first use.
func (r *FSResolver) ResolveModule(fullname string) (*Host, error) {
	if h, ok := r.hosts[fullname]; ok {
		return h, nil
	}

	p := ModulePath(fullname)
	m, err := r.loadModule(p)
	if err != nil {
		return nil, err
	}
	h := NewHost(fullname, p, m, r.options...)
	r.hosts[fullname] = h
	return h, nil
}
