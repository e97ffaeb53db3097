package compile

import (
	"sync"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/internal/equality"
	js "github.com/reoring/skema/jsonschema"
)

// Definitions is the shared definitions map: model name -> compiled fragment,
// emitted under "$defs". Insertion order is kept. It is safe for concurrent
// use; Register is an atomic insert-if-absent.
type Definitions struct {
	mu    sync.Mutex
	names []string
	frags map[string]*js.Schema
}

// NewDefinitions returns an empty map.
func NewDefinitions() *Definitions {
	return &Definitions{frags: map[string]*js.Schema{}}
}

// Register stores frag under name unless the name is already present. It
// reports whether this call inserted. Registering a fragment that differs
// from the stored one returns skema.ErrConflictingDefinition.
func (d *Definitions) Register(name string, frag *js.Schema) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.frags == nil {
		d.frags = map[string]*js.Schema{}
	}
	if prev, ok := d.frags[name]; ok {
		if !equality.Equal(prev, frag) {
			return false, skema.ErrConflictingDefinition
		}
		return false, nil
	}
	d.frags[name] = frag
	d.names = append(d.names, name)
	return true, nil
}

// Get returns the fragment registered under name.
func (d *Definitions) Get(name string) (*js.Schema, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.frags[name]
	return f, ok
}

// Len returns the number of definitions.
func (d *Definitions) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.names)
}

// Names returns the definition names in insertion order.
func (d *Definitions) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.names...)
}

// Schema returns every definition as an ordered "$defs" fragment.
func (d *Definitions) Schema() *js.Schema {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := js.New()
	for _, n := range d.names {
		out.Set(n, d.frags[n])
	}
	return out
}
