package parser

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindBool
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is the generic tree node produced by the parser. It is a tagged
// variant: Kind selects which payload field is meaningful. The tree is
// transient — the binder copies out the scalars it needs and the whole
// tree is released together.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
	Bool bool
	Seq  []*Value
	Map  map[string]*Value
	Keys []string // mapping key order; duplicates keep first position, last write wins
}

// Null returns a null value.
func Null() *Value {
	return &Value{Kind: KindNull}
}

// String returns a string value.
func String(s string) *Value {
	return &Value{Kind: KindString, Str: s}
}

// Int returns an integer value.
func Int(n int64) *Value {
	return &Value{Kind: KindInt, Int: n}
}

// Bool returns a boolean value.
func Bool(b bool) *Value {
	return &Value{Kind: KindBool, Bool: b}
}

// NewSequence returns an empty sequence value.
func NewSequence() *Value {
	return &Value{Kind: KindSequence}
}

// NewMapping returns an empty mapping value.
func NewMapping() *Value {
	return &Value{Kind: KindMapping, Map: make(map[string]*Value)}
}

// Append adds an item to a sequence value.
func (v *Value) Append(item *Value) {
	v.Seq = append(v.Seq, item)
}

// Set stores a mapping entry. Duplicate keys are last-write-wins on the
// value while keeping the key's original position.
func (v *Value) Set(key string, val *Value) {
	if _, ok := v.Map[key]; !ok {
		v.Keys = append(v.Keys, key)
	}
	v.Map[key] = val
}

// Get returns the mapping entry for key, or nil when absent or when the
// receiver is not a mapping. Safe on nil receivers.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != KindMapping {
		return nil
	}
	return v.Map[key]
}

// AsString reports the string payload. Safe on nil receivers.
func (v *Value) AsString() (string, bool) {
	if v == nil || v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// AsInt reports the integer payload.
func (v *Value) AsInt() (int64, bool) {
	if v == nil || v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

// AsBool reports the boolean payload.
func (v *Value) AsBool() (bool, bool) {
	if v == nil || v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

// AsSequence reports the sequence payload.
func (v *Value) AsSequence() ([]*Value, bool) {
	if v == nil || v.Kind != KindSequence {
		return nil, false
	}
	return v.Seq, true
}

// IsMapping reports whether the value is a mapping.
func (v *Value) IsMapping() bool {
	return v != nil && v.Kind == KindMapping
}

// IsNull reports whether the value is null (or absent).
func (v *Value) IsNull() bool {
	return v == nil || v.Kind == KindNull
}

// Interface converts the tree to plain Go values (nil, string, int64, bool,
// []any, map[string]any), the shape expected by JSON-based tooling such as
// schema validation.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return v.Int
	case KindBool:
		return v.Bool
	case KindSequence:
		out := make([]any, len(v.Seq))
		for i, item := range v.Seq {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.Keys))
		for _, k := range v.Keys {
			out[k] = v.Map[k].Interface()
		}
		return out
	default:
		return nil
	}
}
