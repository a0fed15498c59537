package db

import "fmt"

// DistanceMetric used by FT.SEARCH vector similarity queries.
type DistanceMetric string

const (
	// DistanceCosine is cosine distance.
	DistanceCosine DistanceMetric = "COSINE"
	// DistanceIP is inner product distance.
	DistanceIP DistanceMetric = "IP"
	// DistanceL2 is Euclidean distance.
	DistanceL2 DistanceMetric = "L2"
)

// FieldKind enumerates FT schema field types.
type FieldKind int

const (
	// FieldTag is an exact-match TAG field.
	FieldTag FieldKind = iota
	// FieldText is a full-text TEXT field.
	FieldText
	// FieldNumeric is a NUMERIC field.
	FieldNumeric
	// FieldVector is an HNSW FLOAT32 VECTOR field.
	FieldVector
)

// VectorOptions configure the HNSW vector field. Zero M or EFConstruct keep server defaults.
type VectorOptions struct {
	Dim         int
	Distance    DistanceMetric
	M           int
	EFConstruct int
}

// Field is one attribute of an FT schema over hashes.
type Field struct {
	Name          string
	Alias         string
	Kind          FieldKind
	CaseSensitive bool           // TAG only
	Separator     string         // TAG only; empty keeps the server default ","
	Vector        *VectorOptions // VECTOR only
}

// Attribute returns the name queries use for the field: its alias when set.
func (f Field) Attribute() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// IndexDefinition is an FT index over hashes, used by FT.CREATE.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []Field
}

// Validate checks the definition before it reaches the server.
// Every error wraps ErrInvalidIndex.
func (d *IndexDefinition) Validate() error {
	if !IsValidIdentifier(d.Name) {
		return invalid("index name %q must match [a-zA-Z0-9_:-]+", d.Name)
	}
	// Without a prefix FT.CREATE indexes every hash in the keyspace.
	if len(d.Prefixes) == 0 {
		return invalid("index %s needs at least one key prefix", d.Name)
	}
	for _, p := range d.Prefixes {
		if p == "" {
			return invalid("index %s has an empty key prefix", d.Name)
		}
	}
	if len(d.Fields) == 0 {
		return invalid("index %s has no fields", d.Name)
	}

	seen := make(map[string]struct{}, len(d.Fields))
	vectors := 0
	for i, f := range d.Fields {
		if f.Name == "" {
			return invalid("field %d has no name", i)
		}
		attr := f.Attribute()
		if _, dup := seen[attr]; dup {
			return invalid("duplicate field %s", attr)
		}
		seen[attr] = struct{}{}

		if f.Separator != "" {
			if f.Kind != FieldTag {
				return invalid("field %s: separator on a non-tag field", attr)
			}
			if len(f.Separator) != 1 || f.Separator == " " {
				return invalid("field %s: tag separator must be one non-space character, got %q", attr, f.Separator)
			}
		}

		switch f.Kind {
		case FieldTag, FieldText, FieldNumeric:
			if f.Vector != nil {
				return invalid("field %s: vector options on a non-vector field", attr)
			}
		case FieldVector:
			vectors++
			if err := f.Vector.validate(attr); err != nil {
				return err
			}
		default:
			return invalid("field %s: unknown kind %d", attr, f.Kind)
		}
	}
	if vectors > 1 {
		return invalid("index %s has %d vector fields, at most one is supported", d.Name, vectors)
	}
	return nil
}

func (o *VectorOptions) validate(attr string) error {
	if o == nil {
		return invalid("field %s: vector options are required", attr)
	}
	if o.Dim <= 0 {
		return invalid("field %s: vector dimension must be positive, got %d", attr, o.Dim)
	}
	switch o.Distance {
	case DistanceCosine, DistanceIP, DistanceL2:
	default:
		return invalid("field %s: unknown distance metric %q", attr, o.Distance)
	}
	if o.M < 0 || o.EFConstruct < 0 {
		return invalid("field %s: HNSW parameters must not be negative", attr)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidIndex, fmt.Sprintf(format, args...))
}

// IsValidIdentifier reports whether s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == ':', r == '-':
		default:
			return false
		}
	}
	return true
}

// IndexBuilder assembles an IndexDefinition field by field.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts a definition for the named index.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix restricts the index to hashes whose keys start with one of prefixes.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Tag adds a TAG field. Exact file-name matching needs caseSensitive.
func (b *IndexBuilder) Tag(name string, caseSensitive bool) *IndexBuilder {
	return b.add(Field{Name: name, Kind: FieldTag, CaseSensitive: caseSensitive})
}

// Text adds a TEXT field.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	return b.add(Field{Name: name, Kind: FieldText})
}

// Numeric adds a NUMERIC field.
func (b *IndexBuilder) Numeric(name string) *IndexBuilder {
	return b.add(Field{Name: name, Kind: FieldNumeric})
}

// Vector adds an HNSW vector field.
func (b *IndexBuilder) Vector(name string, opts VectorOptions) *IndexBuilder {
	return b.add(Field{Name: name, Kind: FieldVector, Vector: &opts})
}

// SeparatedBy sets the multi-value separator of the most recently added TAG field.
// A value that never contains sep is indexed as a single tag.
func (b *IndexBuilder) SeparatedBy(sep string) *IndexBuilder {
	if n := len(b.def.Fields); n > 0 {
		b.def.Fields[n-1].Separator = sep
	}
	return b
}

// As aliases the most recently added field.
func (b *IndexBuilder) As(alias string) *IndexBuilder {
	if n := len(b.def.Fields); n > 0 {
		b.def.Fields[n-1].Alias = alias
	}
	return b
}

func (b *IndexBuilder) add(f Field) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Build validates and returns a copy detached from the builder.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := IndexDefinition{
		Name:     b.def.Name,
		Prefixes: append([]string(nil), b.def.Prefixes...),
		Fields:   make([]Field, len(b.def.Fields)),
	}
	for i, f := range b.def.Fields {
		if f.Vector != nil {
			opts := *f.Vector
			f.Vector = &opts
		}
		def.Fields[i] = f
	}
	return &def, nil
}
