package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/cvdex/internal/db"
)

// CreateIndex runs FT.CREATE ... ON HASH for a validated definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}
	if err := s.do(ctx, s.b().Arbitrary("FT.CREATE").Args(args...).Build()).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index by name. With deleteDocs the indexed hashes go too (DD).
func (s *Store) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	args := []string{name}
	if deleteDocs {
		args = append(args, "DD")
	}
	if err := s.do(ctx, s.b().Arbitrary("FT.DROPINDEX").Args(args...).Build()).Error(); err != nil {
		if isUnknownIndex(err) {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists probes the index via FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	if err := s.do(ctx, s.b().Arbitrary("FT.INFO").Args(name).Build()).Error(); err != nil {
		if isUnknownIndex(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

// isUnknownIndex matches both the Redis Stack and Redis 8 wording.
func isUnknownIndex(err error) bool {
	return isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index")
}

func buildCreateArgs(def *db.IndexDefinition) ([]string, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: nil definition", db.ErrInvalidIndex)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	args := []string{def.Name, "ON", "HASH", "PREFIX", strconv.Itoa(len(def.Prefixes))}
	args = append(args, def.Prefixes...)
	args = append(args, "SCHEMA")
	for _, f := range def.Fields {
		args = append(args, fieldArgs(f)...)
	}
	return args, nil
}

func fieldArgs(f db.Field) []string {
	args := []string{f.Name}
	if f.Alias != "" {
		args = append(args, "AS", f.Alias)
	}
	switch f.Kind {
	case db.FieldTag:
		args = append(args, "TAG")
		if f.Separator != "" {
			args = append(args, "SEPARATOR", f.Separator)
		}
		if f.CaseSensitive {
			args = append(args, "CASESENSITIVE")
		}
	case db.FieldText:
		args = append(args, "TEXT")
	case db.FieldNumeric:
		args = append(args, "NUMERIC")
	case db.FieldVector:
		args = append(args, hnswArgs(f.Vector)...)
	}
	return args
}

// hnswArgs renders VECTOR HNSW <n> TYPE FLOAT32 DIM d DISTANCE_METRIC m [M x] [EF_CONSTRUCTION y].
func hnswArgs(o *db.VectorOptions) []string {
	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(o.Dim),
		"DISTANCE_METRIC", string(o.Distance),
	}
	if o.M > 0 {
		attrs = append(attrs, "M", strconv.Itoa(o.M))
	}
	if o.EFConstruct > 0 {
		attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(o.EFConstruct))
	}
	return append([]string{"VECTOR", "HNSW", strconv.Itoa(len(attrs))}, attrs...)
}
