// Package patch models partial record updates as an ordered list of typed
// field operations. Store adapters flatten a validated Patch into their
// native partial-update form.
package patch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyPath     = errors.New("patch: empty field path")
	ErrDuplicatePath = errors.New("patch: field path specified more than once")
	ErrPathConflict  = errors.New("patch: field path overlaps another path")
	ErrNilValue      = errors.New("patch: set operation without a value")
)

// Op is a single field operation. Delete ops carry no value.
type Op struct {
	Path   string
	Value  any
	Delete bool
}

// Segments splits the dotted path.
func (o Op) Segments() []string {
	return strings.Split(o.Path, ".")
}

// Patch is an ordered set of field operations against one record.
type Patch struct {
	ops []Op
}

func New() *Patch {
	return &Patch{}
}

// Set appends an assignment of value to path.
func (p *Patch) Set(path string, value any) *Patch {
	p.ops = append(p.ops, Op{Path: path, Value: value})
	return p
}

// Delete appends a removal of path from the stored record.
func (p *Patch) Delete(path string) *Patch {
	p.ops = append(p.ops, Op{Path: path, Delete: true})
	return p
}

// Apply appends the operation described by f: Set writes the value, Cleared
// deletes the path and Unchanged adds nothing.
func Apply[T any](p *Patch, path string, f Field[T]) {
	if v, ok := f.Get(); ok {
		p.Set(path, v)
		return
	}
	if f.IsCleared() {
		p.Delete(path)
	}
}

func (p *Patch) Ops() []Op {
	out := make([]Op, len(p.ops))
	copy(out, p.ops)
	return out
}

func (p *Patch) Len() int {
	return len(p.ops)
}

func (p *Patch) IsEmpty() bool {
	return len(p.ops) == 0
}

// Lookup returns the op for path, if any.
func (p *Patch) Lookup(path string) (Op, bool) {
	for _, op := range p.ops {
		if op.Path == path {
			return op, true
		}
	}
	return Op{}, false
}

// Validate checks that every path is well formed, unique and does not
// overlap another path (for example "slug" and "slug.es"), and that set ops
// carry a value.
func (p *Patch) Validate() error {
	seen := make(map[string]struct{}, len(p.ops))
	for _, op := range p.ops {
		if op.Path == "" || strings.HasPrefix(op.Path, ".") || strings.HasSuffix(op.Path, ".") || strings.Contains(op.Path, "..") {
			return fmt.Errorf("%w: %q", ErrEmptyPath, op.Path)
		}
		if !op.Delete && op.Value == nil {
			return fmt.Errorf("%w: %s", ErrNilValue, op.Path)
		}
		if _, dup := seen[op.Path]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicatePath, op.Path)
		}
		seen[op.Path] = struct{}{}
	}
	for _, a := range p.ops {
		for _, b := range p.ops {
			if a.Path != b.Path && strings.HasPrefix(b.Path, a.Path+".") {
				return fmt.Errorf("%w: %s and %s", ErrPathConflict, a.Path, b.Path)
			}
		}
	}
	return nil
}

// ApplyTo applies the patch to a nested document map in place, creating
// intermediate maps as needed. It backs stores without native partial
// updates.
func (p *Patch) ApplyTo(doc map[string]any) {
	for _, op := range p.ops {
		segs := op.Segments()
		parent := doc
		for _, seg := range segs[:len(segs)-1] {
			next, ok := parent[seg].(map[string]any)
			if !ok {
				if op.Delete {
					parent = nil
					break
				}
				next = map[string]any{}
				parent[seg] = next
			}
			parent = next
		}
		if parent == nil {
			continue
		}
		leaf := segs[len(segs)-1]
		if op.Delete {
			delete(parent, leaf)
		} else {
			parent[leaf] = op.Value
		}
	}
}
