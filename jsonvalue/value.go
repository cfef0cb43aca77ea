// Package jsonvalue models an arbitrary JSON document as an explicit tagged
// tree. Object members keep document order and every container node carries
// a unique id, so walkers can track visited nodes without relying on
// pointer identity of Go maps or slices.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"sync/atomic"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value *Value
}

// Value is a single node of a JSON tree. The zero value is JSON null.
type Value struct {
	kind    Kind
	id      uint64
	boolean bool
	str     string // string payload, or the literal text of a number
	items   []*Value
	members []Member
	index   map[string]int
}

var nextID atomic.Uint64

func newContainer(k Kind) *Value {
	return &Value{kind: k, id: nextID.Add(1)}
}

// NewNull returns a null node.
func NewNull() *Value { return &Value{kind: Null} }

// NewBool returns a boolean node.
func NewBool(b bool) *Value { return &Value{kind: Bool, boolean: b} }

// NewString returns a string node.
func NewString(s string) *Value { return &Value{kind: String, str: s} }

// NewNumber returns a number node holding the literal text n.
func NewNumber(n json.Number) *Value { return &Value{kind: Number, str: n.String()} }

// NewArray returns an array node over items. The same *Value may appear in
// several containers; walkers see it as one node.
func NewArray(items ...*Value) *Value {
	v := newContainer(Array)
	v.items = items
	return v
}

// NewObject returns an empty object node. Use Set to add members.
func NewObject() *Value {
	v := newContainer(Object)
	v.index = make(map[string]int)
	return v
}

// Set adds or replaces a member. Replacing keeps the original position,
// matching how decoders treat duplicate keys.
func (v *Value) Set(key string, val *Value) *Value {
	if v.kind != Object {
		return v
	}
	if i, ok := v.index[key]; ok {
		v.members[i].Value = val
		return v
	}
	v.index[key] = len(v.members)
	v.members = append(v.members, Member{Key: key, Value: val})
	return v
}

// Kind reports the variant. A nil *Value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// ID is the node id of an array or object; scalars report 0.
func (v *Value) ID() uint64 {
	if v == nil {
		return 0
	}
	return v.id
}

// IsNull reports whether v is null or missing.
func (v *Value) IsNull() bool { return v.Kind() == Null }

// Str returns the string payload.
func (v *Value) Str() (string, bool) {
	if v.Kind() != String {
		return "", false
	}
	return v.str, true
}

// Bool returns the boolean payload.
func (v *Value) Bool() (bool, bool) {
	if v.Kind() != Bool {
		return false, false
	}
	return v.boolean, true
}

// Number returns the literal number text.
func (v *Value) Number() (json.Number, bool) {
	if v.Kind() != Number {
		return "", false
	}
	return json.Number(v.str), true
}

// Float returns the number payload as a float64.
func (v *Value) Float() (float64, bool) {
	n, ok := v.Number()
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Items returns the elements of an array, or nil.
func (v *Value) Items() []*Value {
	if v.Kind() != Array {
		return nil
	}
	return v.items
}

// Members returns the members of an object in document order, or nil.
func (v *Value) Members() []Member {
	if v.Kind() != Object {
		return nil
	}
	return v.members
}

// Len is the number of elements or members; scalars report 0.
func (v *Value) Len() int {
	switch v.Kind() {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	}
	return 0
}

// Get returns the member stored under key, or nil.
func (v *Value) Get(key string) *Value {
	if v.Kind() != Object {
		return nil
	}
	i, ok := v.index[key]
	if !ok {
		return nil
	}
	return v.members[i].Value
}

// Has reports whether an object carries key, even with a null value.
func (v *Value) Has(key string) bool {
	if v.Kind() != Object {
		return false
	}
	_, ok := v.index[key]
	return ok
}

// Path follows object keys from v. Missing steps yield nil.
func (v *Value) Path(keys ...string) *Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// MaxDepth bounds container nesting in Decode and CheckDepth.
const MaxDepth = 10000

// ErrTooDeep is returned when a document nests deeper than MaxDepth.
var ErrTooDeep = errors.New("jsonvalue: exceeded max nesting depth")

// CheckDepth scans raw JSON or JSON5 text and fails with ErrTooDeep when
// brackets nest deeper than MaxDepth. Quoted strings are skipped.
func CheckDepth(data []byte) error {
	depth := 0
	var quote byte
	for i := 0; i < len(data); i++ {
		c := data[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '[', '{':
			if depth++; depth > MaxDepth {
				return ErrTooDeep
			}
		case ']', '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return nil
}

// Parse decodes a single JSON document into a tree. Trailing data after the
// first value is an error.
func Parse(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := Decode(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("jsonvalue: trailing data after document")
	}
	return v, nil
}

// Decode reads the next JSON value from dec. It calls dec.UseNumber so
// numbers keep their literal form.
func Decode(dec *json.Decoder) (*Value, error) {
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok, 0)
}

func decodeToken(dec *json.Decoder, tok json.Token, depth int) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		return NewNumber(t), nil
	case float64:
		return NewNumber(json.Number(strconv.FormatFloat(t, 'f', -1, 64))), nil
	case string:
		return NewString(t), nil
	case json.Delim:
		if t == '[' || t == '{' {
			if depth++; depth > MaxDepth {
				return nil, ErrTooDeep
			}
		}
		switch t {
		case '[':
			arr := newContainer(Array)
			for dec.More() {
				next, err := dec.Token()
				if err != nil {
					return nil, err
				}
				item, err := decodeToken(dec, next, depth)
				if err != nil {
					return nil, err
				}
				arr.items = append(arr.items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("jsonvalue: object key is %T", keyTok)
				}
				next, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := decodeToken(dec, next, depth)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		}
	}
	return nil, fmt.Errorf("jsonvalue: unexpected token %v", tok)
}

// FromAny converts a value produced by an encoding/json style decoder
// (maps, slices, strings, float64, json.Number, bool, nil). Map keys are
// sorted because Go maps carry no order.
func FromAny(x any) *Value {
	switch t := x.(type) {
	case nil:
		return NewNull()
	case *Value:
		return t
	case bool:
		return NewBool(t)
	case string:
		return NewString(t)
	case json.Number:
		return NewNumber(t)
	case float64:
		return NewNumber(json.Number(strconv.FormatFloat(t, 'f', -1, 64)))
	case int:
		return NewNumber(json.Number(strconv.Itoa(t)))
	case int64:
		return NewNumber(json.Number(strconv.FormatInt(t, 10)))
	case []any:
		items := make([]*Value, len(t))
		for i, e := range t {
			items[i] = FromAny(e)
		}
		return NewArray(items...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, FromAny(t[k]))
		}
		return obj
	default:
		return NewString(fmt.Sprint(t))
	}
}
