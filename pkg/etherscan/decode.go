package etherscan

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"sync"

	"github.com/archon-research/etherscan/internal/pkg/hexutil"
)

// Result types declare their JSON mapping with struct tags:
//
//	BlockNumber int64 `etherscan:"blockNumber,default=-1"`
//
// The first tag element is the JSON field name. A missing, null or malformed
// field takes the default (or the Go zero value when none is given). Numbers are
// accepted as JSON numbers, decimal strings and 0x-prefixed hex strings. Nested
// structs and slices decode recursively; array elements of the wrong shape are
// skipped. Unknown JSON fields are ignored.
const tagName = "etherscan"

// fieldDecoder is implemented by value types with their own parsing rules.
// decodeField(nil) must reset the receiver to its invalid state.
type fieldDecoder interface {
	decodeField(raw json.RawMessage) bool
}

var fieldDecoderType = reflect.TypeFor[fieldDecoder]()

type fieldPlan struct {
	index      []int
	name       string
	def        string
	hasDefault bool
}

type schema struct {
	fields []fieldPlan
}

var schemas sync.Map // reflect.Type -> *schema

func schemaFor(t reflect.Type) *schema {
	if s, ok := schemas.Load(t); ok {
		return s.(*schema)
	}

	s := &schema{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup(tagName)
		if !ok || tag == "-" || !f.IsExported() {
			continue
		}
		plan := fieldPlan{index: f.Index}
		parts := strings.Split(tag, ",")
		plan.name = parts[0]
		for _, opt := range parts[1:] {
			if def, found := strings.CutPrefix(opt, "default="); found {
				plan.def, plan.hasDefault = def, true
			}
		}
		s.fields = append(s.fields, plan)
	}

	actual, _ := schemas.LoadOrStore(t, s)
	return actual.(*schema)
}

// decode maps raw onto a new T. A nil or non-object raw yields T's default instance.
func decode[T any](raw json.RawMessage) T {
	var v T
	rv := reflect.ValueOf(&v).Elem()
	if !setValue(rv, raw) {
		resetValue(rv, "", false)
	}
	return v
}

// decodeWithDefault is decode for scalar results that carry their own sentinel.
func decodeWithDefault[T any](raw json.RawMessage, def string) T {
	var v T
	rv := reflect.ValueOf(&v).Elem()
	if !setValue(rv, raw) {
		resetValue(rv, def, true)
	}
	return v
}

// decodeList maps a JSON array element-wise, preserving order.
func decodeList[T any](raw json.RawMessage) []T {
	var list []T
	rv := reflect.ValueOf(&list).Elem()
	if !setValue(rv, raw) {
		return nil
	}
	return list
}

// defaultOf returns the instance a failed call hands back.
func defaultOf[T any]() T {
	return decode[T](nil)
}

func decodeStruct(v reflect.Value, raw json.RawMessage) {
	var obj map[string]json.RawMessage
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &obj)
	}

	for _, plan := range schemaFor(v.Type()).fields {
		fv := v.FieldByIndex(plan.index)
		fieldRaw, present := obj[plan.name]
		if present && !isNull(fieldRaw) && setValue(fv, fieldRaw) {
			continue
		}
		resetValue(fv, plan.def, plan.hasDefault)
	}
}

// setValue decodes raw into v and reports whether it succeeded. On failure v
// may be partially written; callers reset it.
func setValue(v reflect.Value, raw json.RawMessage) bool {
	if v.CanAddr() && v.Addr().Type().Implements(fieldDecoderType) {
		return v.Addr().Interface().(fieldDecoder).decodeField(raw)
	}
	if len(raw) == 0 || isNull(raw) {
		return false
	}

	switch v.Kind() {
	case reflect.String:
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			v.SetString(s)
			return true
		}
		if text := scalarText(raw); text != "" && !isComposite(raw) {
			v.SetString(text)
			return true
		}
		return false

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := hexutil.ParseInt64(scalarText(raw))
		if err != nil || v.OverflowInt(n) {
			return false
		}
		v.SetInt(n)
		return true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := hexutil.ParseBig(scalarText(raw))
		if !ok || n.Sign() < 0 || !n.IsUint64() || v.OverflowUint(n.Uint64()) {
			return false
		}
		v.SetUint(n.Uint64())
		return true

	case reflect.Float32, reflect.Float64:
		f, err := hexutil.ParseFloat64(scalarText(raw))
		if err != nil || v.OverflowFloat(f) {
			return false
		}
		v.SetFloat(f)
		return true

	case reflect.Bool:
		switch scalarText(raw) {
		case "true", "1":
			v.SetBool(true)
		case "false", "0":
			v.SetBool(false)
		default:
			return false
		}
		return true

	case reflect.Struct:
		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
			return false
		}
		decodeStruct(v, raw)
		return true

	case reflect.Slice:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return false
		}
		out := reflect.MakeSlice(v.Type(), 0, len(items))
		for _, item := range items {
			elem := reflect.New(v.Type().Elem()).Elem()
			if setValue(elem, item) {
				out = reflect.Append(out, elem)
			}
		}
		v.Set(out)
		return true

	default:
		return false
	}
}

// resetValue puts v into its default state.
func resetValue(v reflect.Value, def string, hasDefault bool) {
	if v.CanAddr() && v.Addr().Type().Implements(fieldDecoderType) {
		v.Addr().Interface().(fieldDecoder).decodeField(nil)
		return
	}

	switch v.Kind() {
	case reflect.Struct:
		decodeStruct(v, nil)
		return
	case reflect.Slice:
		v.Set(reflect.Zero(v.Type()))
		return
	}

	v.Set(reflect.Zero(v.Type()))
	if hasDefault && def != "" {
		quoted, _ := json.Marshal(def)
		setValue(v, quoted)
	}
}

// scalarText returns the content of a JSON string, or the literal text of any
// other JSON value. Missing values yield "".
func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isComposite(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}
