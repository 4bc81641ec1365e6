package database

import (
	"fmt"
	"slices"
)

// FieldType is the storage type of a schema field.
type FieldType int

const (
	FieldString FieldType = iota + 1
	FieldStringSet
	FieldInt
	FieldFloat
	FieldBool
	FieldTime
	FieldObject
)

func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "string"
	case FieldStringSet:
		return "string_set"
	case FieldInt:
		return "int"
	case FieldFloat:
		return "float"
	case FieldBool:
		return "bool"
	case FieldTime:
		return "time"
	case FieldObject:
		return "object"
	default:
		return fmt.Sprintf("field_type(%d)", int(t))
	}
}

// Field describes one document field as stored.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
}

// Schema describes the shape of documents in one collection. Key names the
// string field every document is addressed by.
type Schema struct {
	Key    string
	Fields []Field
}

// Validate checks the schema is usable by every engine.
func (s Schema) Validate() error {
	if s.Key == "" {
		return fmt.Errorf("schema key is required")
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema field name is required")
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("schema field %q declared twice", f.Name)
		}
		if f.Type < FieldString || f.Type > FieldObject {
			return fmt.Errorf("schema field %q has unknown type %s", f.Name, f.Type)
		}
		seen[f.Name] = struct{}{}
	}
	key, ok := s.Field(s.Key)
	if !ok {
		return fmt.Errorf("schema key %q is not a declared field", s.Key)
	}
	if key.Type != FieldString {
		return fmt.Errorf("schema key %q must be a string field, got %s", s.Key, key.Type)
	}
	return nil
}

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// SetFields returns the names of all string-set fields in declaration order.
func (s Schema) SetFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Type == FieldStringSet {
			out = append(out, f.Name)
		}
	}
	return out
}

// Equal reports whether two schemas describe the same document shape.
func (s Schema) Equal(o Schema) bool {
	return s.Key == o.Key && slices.Equal(s.Fields, o.Fields)
}
