package compile

import (
	"github.com/sirupsen/logrus"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// scalar builds string/integer/number/boolean/null fragments. Date and time
// kinds are string fragments whose fixed format is written last, after the
// caller's constraints, so it always wins.
func (s *session) scalar(prop string, t skema.Scalar, c skema.Constraints) (*js.Schema, error) {
	if t.Kind.JSONType() == "" {
		return nil, unsupportedType(prop, t, "")
	}
	frag := js.New().Set(js.KeyType, t.Kind.JSONType())
	applyConstraints(frag, t.Category(), c)
	if f := t.Kind.Format(); f != "" {
		if given, ok := lookup(c, "format", js.KeyFormat); ok && given != f {
			s.log.WithFields(logrus.Fields{"property": prop, "format": given}).Warn("format option replaced by " + f)
		}
		frag.Delete(js.KeyFormat)
		frag.Set(js.KeyFormat, f)
	}
	return frag, nil
}
