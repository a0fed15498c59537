package redis

import (
	"cmp"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/cvdex/internal/db"
	"github.com/kailas-cloud/cvdex/internal/domain/search/filter"
)

const (
	defaultVectorField = "vector"
	// vectorScoreField is the distance attribute FT.SEARCH attaches to KNN hits.
	vectorScoreField = "__vector_score"
)

// SearchKNN runs a KNN vector similarity search via FT.SEARCH.
// Hits come back nearest first with Score = 1 - cosine distance.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	args, err := knnArgs(q)
	if err != nil {
		return nil, err
	}
	raw, err := s.do(ctx, s.b().Arbitrary("FT.SEARCH").Args(args...).Build()).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return parseKNNResult(raw)
}

func knnArgs(q *db.KNNQuery) ([]string, error) {
	switch {
	case q.IndexName == "":
		return nil, errors.New("index name is required")
	case len(q.Vector) == 0:
		return nil, errors.New("vector is required")
	case q.K <= 0:
		return nil, errors.New("k must be positive")
	}

	field := cmp.Or(q.VectorField, defaultVectorField)
	knn := fmt.Sprintf("[KNN %d @%s $BLOB]", q.K, field)
	query := "*=>" + knn
	if pre := buildFilter(q.Filters); pre != "" {
		query = "(" + pre + ")=>" + knn
	}

	args := []string{q.IndexName, query}
	if len(q.ReturnFields) > 0 {
		ret := append(slices.Clone(q.ReturnFields), vectorScoreField)
		args = append(args, "RETURN", strconv.Itoa(len(ret)))
		args = append(args, ret...)
	}
	return append(args,
		"SORTBY", vectorScoreField, "ASC",
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", vectorToBytes(q.Vector),
		"DIALECT", "2",
	), nil
}

// SearchCount returns document count via FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, index, query string) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(index, query, "LIMIT", "0", "0", "DIALECT", "2").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// SearchDistinct lists unique values of a field via FT.AGGREGATE GROUPBY.
func (s *Store) SearchDistinct(ctx context.Context, q *db.DistinctQuery) ([]string, error) {
	if q.IndexName == "" || q.Field == "" {
		return nil, errors.New("index name and field are required")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10000
	}

	field := "@" + q.Field
	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(
		q.IndexName, "*",
		"LOAD", "1", field,
		"GROUPBY", "1", field,
		"LIMIT", "0", strconv.Itoa(limit),
		"DIALECT", "2",
	).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	return parseDistinctResult(raw, q.Field), nil
}

// --- Result parsing ---

func parseKNNResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entry := db.SearchEntry{Key: key, Fields: parseFieldPairs(fields)}
		if scoreStr, ok := entry.Fields[vectorScoreField]; ok {
			if d, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				entry.Score = max(0, 1.0-d) // cosine distance → similarity, clamped to [0,1]
			}
			delete(entry.Fields, vectorScoreField)
		}
		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

// parseDistinctResult reads [total, [field, value], [field, value], ...].
func parseDistinctResult(raw []rueidis.RedisMessage, field string) []string {
	if len(raw) < 2 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw)-1)
	out := make([]string, 0, len(raw)-1)
	for _, row := range raw[1:] {
		pairs, err := row.ToArray()
		if err != nil {
			continue
		}
		v, ok := parseFieldPairs(pairs)[field]
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Filter building ---

// buildFilter translates filter.Expression into an FT.SEARCH pre-filter query string.
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(expr.Must()))
	for _, cond := range expr.Must() {
		parts = append(parts, buildTagFilter(cond.Key(), cond.Match()))
	}
	return strings.Join(parts, " ")
}

func buildTagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

// tagSpecial lists the characters RediSearch treats as syntax inside a TAG query.
const tagSpecial = `,.<>{}[]"':;!@#$%^&*()-+=~|/ `

var tagEscaper = func() *strings.Replacer {
	pairs := []string{`\`, `\\`}
	for _, r := range tagSpecial {
		pairs = append(pairs, string(r), `\`+string(r))
	}
	return strings.NewReplacer(pairs...)
}()

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
