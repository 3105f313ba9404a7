// Package schema validates and normalizes flat, query-string shaped input
// against a declarative field schema.
package schema

import (
	"net/url"

	dErrors "authflow/pkg/domain-errors"
)

// Params is flat, query-string shaped input: parameter name to raw value.
type Params map[string]string

// FromQuery takes the first value of every query parameter.
func FromQuery(q url.Values) Params {
	p := make(Params, len(q))
	for k, vs := range q {
		if len(vs) > 0 {
			p[k] = vs[0]
		}
	}
	return p
}

// Field describes how one source parameter is validated and where its
// normalized value is stored.
type Field struct {
	Name     string
	Rule     Rule
	Required bool
	// Default is stored when the parameter is absent. nil means no default.
	Default  any
	RenameTo string
}

func (f Field) key() string {
	if f.RenameTo != "" {
		return f.RenameTo
	}
	return f.Name
}

// Schema is an ordered list of fields. Order decides which offending field is
// reported when several are invalid.
type Schema []Field

// Values holds normalized output keyed by the (renamed) field name.
type Values map[string]any

// Has reports whether key was produced.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// String returns the string value for key, or "".
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Bool returns the bool value for key, or false.
func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

// Transform validates params against s. It returns INVALID_PARAMETER naming the
// first field that fails its rule, or MISSING_PARAMETER for the first required
// field that is absent without a default. Parameters not named in s are
// dropped. Nothing is returned on failure.
func Transform(params Params, s Schema) (Values, error) {
	out := make(Values, len(s))
	for _, f := range s {
		raw, present := params[f.Name]
		if !present {
			switch {
			case f.Default != nil:
				out[f.key()] = f.Default
			case f.Required:
				return nil, dErrors.MissingParameter(f.Name)
			}
			continue
		}

		value, ok := f.Rule.apply(raw)
		if !ok {
			return nil, dErrors.InvalidParameter(f.Name)
		}
		out[f.key()] = value
	}
	return out, nil
}
