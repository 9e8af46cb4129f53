package load

import (
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/r-james-dev/wasmpy/wasm"
)

// NoWarnEnv is the environment variable that silences warnings about exports
// that are not exposed as attributes.
const NoWarnEnv = "WASMPY_NO_WARN"

// ReservedPrefix marks export names that are only reachable through Host.Func.
const ReservedPrefix = "_"

type options struct {
	logger    *zap.Logger
	lookupEnv func(string) (string, bool)
	decode    []wasm.DecodeOption
}

// Option configures a Host or a Resolver.
type Option func(*options)

// WithLogger sets the logger that receives load warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDecodeOptions sets the options used when a Resolver decodes a module.
func WithDecodeOptions(opts ...wasm.DecodeOption) Option {
	return func(o *options) {
		o.decode = append(o.decode, opts...)
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Func is a function exported by a module.
type Func struct {
	Name     string
	Index    uint32 // Index in the function index space.
	Sig      wasm.FunctionSig
	Imported bool // True if the module re-exports one of its imports.
}

// Imports maps import module names to the values provided for their fields.
type Imports map[string]map[string]interface{}

// Host exposes the exported functions of a decoded module. Functions whose
// names begin with ReservedPrefix are not attributes and must be looked up
// with Func.
type Host struct {
	Name   string
	Path   string
	Module *wasm.Module

	attrs   map[string]Func
	funcs   map[string]Func
	list    []Func
	imports Imports
}

// NewHost builds the export surface of m. A warning is logged for every
// function that is not exposed as an attribute unless NoWarnEnv is set.
func NewHost(name, path string, m *wasm.Module, opts ...Option) *Host {
	o := newOptions(opts)
	_, noWarn := o.lookupEnv(NoWarnEnv)

	h := &Host{
		Name:    name,
		Path:    path,
		Module:  m,
		attrs:   map[string]Func{},
		funcs:   map[string]Func{},
		imports: Imports{},
	}

	warned := false
	for _, e := range m.Exports {
		if e.Kind != wasm.ExternalFunction {
			continue
		}

		sig, _ := m.FunctionSig(e.Index)
		fn := Func{Name: e.FieldStr, Index: e.Index, Sig: sig, Imported: e.Imported}
		h.funcs[e.FieldStr] = fn
		h.list = append(h.list, fn)

		if strings.HasPrefix(e.FieldStr, ReservedPrefix) {
			if !noWarn {
				warned = true
				o.logger.Warn(`exported function starts with "`+ReservedPrefix+`", it must be called with Func("`+e.FieldStr+`")`,
					zap.String("module", name), zap.String("export", e.FieldStr))
			}
			continue
		}
		h.attrs[e.FieldStr] = fn
	}
	if warned {
		o.logger.Warn("wasmpy import warnings can be turned off by setting the " + NoWarnEnv + " environment variable")
	}
	return h
}

// Attr returns the exported function with the given name if it is exposed as
// an attribute.
func (h *Host) Attr(name string) (Func, bool) {
	fn, ok := h.attrs[name]
	return fn, ok
}

// Attrs returns the sorted names of the attribute functions.
func (h *Host) Attrs() []string {
	names := make([]string, 0, len(h.attrs))
	for name := range h.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Func returns the exported function with the given name, including functions
// that are not attributes.
func (h *Host) Func(name string) (Func, bool) {
	fn, ok := h.funcs[name]
	return fn, ok
}

// Funcs returns every exported function in declaration order.
func (h *Host) Funcs() []Func {
	return append([]Func(nil), h.list...)
}

// Provide merges imports into the values provided for the module's imports.
func (h *Host) Provide(imports Imports) {
	for module, fields := range imports {
		ns, ok := h.imports[module]
		if !ok {
			ns = map[string]interface{}{}
			h.imports[module] = ns
		}
		for field, v := range fields {
			ns[field] = v
		}
	}
}

// Unresolved returns the function imports of the module that have not been
// provided.
func (h *Host) Unresolved() []wasm.ImportEntry {
	var missing []wasm.ImportEntry
	for _, i := range h.Module.Imports {
		if i.Type.Kind() != wasm.ExternalFunction {
			continue
		}
		if _, ok := h.imports[i.ModuleName][i.FieldName]; !ok {
			missing = append(missing, i)
		}
	}
	return missing
}
