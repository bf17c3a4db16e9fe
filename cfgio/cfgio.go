// Package cfgio reads and writes objects as git-config style files using
// github.com/go-git/gcfg.
//
// The object type must be a struct in the layout gcfg expects: each
// exported struct field is a section, and each map[string]*Struct field is
// a section with subsections. Section fields hold the variables as string,
// bool, integer, or slice-of-those fields. Field names are matched
// case-insensitively, with hyphens in the file corresponding to
// underscores in field names.
package cfgio

import (
	"bytes"
	"github.com/go-git/gcfg"
	"github.com/jungnoh/objio"
	"github.com/pkg/errors"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Codec encodes one configuration per document. An empty document decodes
// to the zero configuration.
type Codec[T any] struct {
	permissive bool
}

var (
	_ objio.Codec[struct{}]     = Codec[struct{}]{}
	_ objio.Converter[struct{}] = Codec[struct{}]{}
)

// New returns a Codec that rejects documents containing sections or
// variables the configuration type does not declare.
func New[T any]() Codec[T] {
	return Codec[T]{}
}

// WithPermissive returns a copy of c that ignores unknown sections and
// variables instead of rejecting them.
func (c Codec[T]) WithPermissive(permissive bool) Codec[T] {
	c.permissive = permissive
	return c
}

// Unmarshal decodes a configuration from a document.
func (c Codec[T]) Unmarshal(data []byte) (T, error) {
	var obj T
	err := gcfg.ReadInto(&obj, bytes.NewReader(data))
	if c.permissive {
		err = gcfg.FatalOnly(err)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return obj, nil
}

// Marshal encodes obj as a document that Unmarshal restores exactly.
func (c Codec[T]) Marshal(obj T) ([]byte, error) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Struct {
		return nil, errors.Errorf("config type %T must be a struct", obj)
	}

	var buf bytes.Buffer
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := keyName(f.Name)
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Struct:
			if err := encodeSection(&buf, "["+name+"]", fv); err != nil {
				return nil, err
			}
		case reflect.Map:
			if f.Type.Key().Kind() != reflect.String {
				return nil, errors.Errorf("subsection field %s must be keyed by string", f.Name)
			}
			if err := encodeSubsections(&buf, name, fv); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Errorf("cannot encode field %s as a config section", f.Name)
		}
	}
	return buf.Bytes(), nil
}

// Read decodes one configuration from the remainder of r.
func (c Codec[T]) Read(r io.Reader) (T, error) {
	var zero T
	data, err := io.ReadAll(r)
	if err != nil {
		return zero, objio.WrapIO("read", err)
	}
	obj, err := c.Unmarshal(data)
	if err != nil {
		return zero, errors.Wrap(err, "failed to unmarshal object")
	}
	return obj, nil
}

// Write encodes obj to w as a single document.
func (c Codec[T]) Write(w io.Writer, obj T) error {
	data, err := c.Marshal(obj)
	if err != nil {
		return errors.Wrap(err, "failed to marshal object")
	}
	if _, err := w.Write(data); err != nil {
		return objio.WrapIO("write", err)
	}
	return nil
}

func encodeSubsections(buf *bytes.Buffer, section string, v reflect.Value) error {
	keys := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)

	for _, key := range keys {
		sv := v.MapIndex(reflect.ValueOf(key))
		if sv.Kind() == reflect.Pointer {
			if sv.IsNil() {
				continue
			}
			sv = sv.Elem()
		}
		if sv.Kind() != reflect.Struct {
			return errors.Errorf("subsection %s %q must hold a struct", section, key)
		}
		header := "[" + section + " \"" + escapeSubsection(key) + "\"]"
		if err := encodeSection(buf, header, sv); err != nil {
			return err
		}
	}
	return nil
}

func encodeSection(buf *bytes.Buffer, header string, v reflect.Value) error {
	buf.WriteString(header + "\n")
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := keyName(f.Name)
		fv := v.Field(i)
		if fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() != reflect.Uint8 {
			for j := 0; j < fv.Len(); j++ {
				if err := encodeVar(buf, name, fv.Index(j)); err != nil {
					return err
				}
			}
			continue
		}
		if err := encodeVar(buf, name, fv); err != nil {
			return err
		}
	}
	return nil
}

func encodeVar(buf *bytes.Buffer, name string, v reflect.Value) error {
	var value string
	switch v.Kind() {
	case reflect.String:
		value = quote(v.String())
	case reflect.Bool:
		value = strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		value = strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		value = strconv.FormatUint(v.Uint(), 10)
	default:
		return errors.Errorf("cannot encode variable %s of type %s", name, v.Type())
	}
	buf.WriteString("\t" + name + " = " + value + "\n")
	return nil
}

func keyName(field string) string {
	return strings.ReplaceAll(strings.ToLower(field), "_", "-")
}

// quote wraps values that the config syntax cannot carry bare, escaping in
// the same way git does.
func quote(s string) string {
	if !needsQuote(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuote(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return true
	}
	return strings.ContainsAny(s, "#;\"\\\n\t")
}

func escapeSubsection(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
