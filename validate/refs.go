package validate

import (
	js "github.com/reoring/skema/jsonschema"
)

// maxRefHops bounds chains of "$ref" pointing at "$ref".
const maxRefHops = 32

// resolve follows local "#/$defs/<name>" pointers against the root document.
// Pointers outside the root "$defs", unknown names and cycles of bare
// references resolve to nil and the fragment is skipped.
func (w *walker) resolve(frag *js.Schema) *js.Schema {
	visited := map[string]bool{}
	for hop := 0; frag != nil && frag.Ref() != ""; hop++ {
		name, ok := frag.DefName()
		if !ok || visited[name] || hop >= maxRefHops {
			return nil
		}
		visited[name] = true
		defs := w.root.Defs()
		if defs == nil {
			return nil
		}
		frag = defs.Child(name)
	}
	return frag
}
