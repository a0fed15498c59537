package redis

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/cvdex/internal/db"
	"github.com/kailas-cloud/cvdex/internal/domain/search/filter"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	if !isDBError(err) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped db.Error, got %v", err)
	}
}

func TestWaitForReady_ImmediatePong(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG"))).
		Times(1)

	// Shorter than one poll tick: only the first ping can succeed in time.
	s := NewStoreForTest(c)
	if err := s.WaitForReady(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForReady_RetriesUntilPong(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	calls := 0
	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		DoAndReturn(func(_ context.Context, _ rueidis.Completed) rueidis.RedisResult {
			calls++
			if calls == 1 {
				return mock.ErrorResult(errors.New("connection refused"))
			}
			return mock.Result(mock.RedisString("PONG"))
		}).Times(2)

	s := NewStoreForTest(c)
	if err := s.WaitForReady(context.Background(), time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForReady_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(errors.New("connection refused"))).
		AnyTimes()

	s := NewStoreForTest(c)
	err := s.WaitForReady(context.Background(), 250*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestIsRedisErr(t *testing.T) {
	serverErr := mock.Result(mock.RedisError("Index already exists")).Error()

	tests := []struct {
		name string
		err  error
		sub  string
		want bool
	}{
		{"server error case insensitive", serverErr, "index already exists", true},
		{"server error other text", serverErr, "unknown index name", false},
		{"plain error", errors.New("Index already exists"), "index already exists", false},
		{"nil", nil, "x", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRedisErr(tc.err, tc.sub); got != tc.want {
				t.Errorf("isRedisErr = %v, want %v", got, tc.want)
			}
		})
	}
}

// --- hash.go tests ---

func TestHSetMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(2)),
			mock.Result(mock.RedisInt64(2)),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "k1", Fields: map[string]string{"file_name": "A.pdf"}},
		{Key: "k2", Fields: map[string]string{"file_name": "B.pdf"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetMulti_PartialError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(2)),
			mock.ErrorResult(errors.New("OOM")),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "k1", Fields: map[string]string{"f": "v"}},
		{Key: "k2", Fields: map[string]string{"f": "v"}},
	})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestHSetMulti_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	if err := s.HSetMulti(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetMulti_NoFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{{Key: "k1"}})
	if !isDBError(err) {
		t.Fatalf("expected db.Error for empty field set, got %v", err)
	}
}

// --- kv.go tests ---

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "k")).
		Return(mock.Result(mock.RedisString("value")))

	s := NewStoreForTest(c)
	v, err := s.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(v) != "value" {
		t.Errorf("Get = %q", v)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "k")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	if _, err := s.Get(context.Background(), "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSetWithTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v", "EX", "60")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL_ZeroMeansNoExpiry(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v", "EX", "1")).
		Return(mock.ErrorResult(errors.New("READONLY")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "k", []byte("v"), time.Second); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

// --- index.go tests ---

func chunkIndexDef() *db.IndexBuilder {
	return db.NewIndex("cvdex:chunks:idx").
		Prefix("cvdex:chunk:").
		Tag("file_name", true).SeparatedBy("/").
		Text("__content").
		Numeric("chunk_index").
		Vector("__vector", db.VectorOptions{Dim: 4, Distance: db.DistanceCosine, M: 16, EFConstruct: 200}).
		As("vector")
}

func mustBuild(t *testing.T, b *db.IndexBuilder) *db.IndexDefinition {
	t.Helper()
	def, err := b.Build()
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	return def
}

func TestCreateIndex_CommandShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	want := []string{
		"FT.CREATE", "cvdex:chunks:idx", "ON", "HASH", "PREFIX", "1", "cvdex:chunk:",
		"SCHEMA",
		"file_name", "TAG", "SEPARATOR", "/", "CASESENSITIVE",
		"__content", "TEXT",
		"chunk_index", "NUMERIC",
		"__vector", "AS", "vector", "VECTOR", "HNSW", "10",
		"TYPE", "FLOAT32", "DIM", "4", "DISTANCE_METRIC", "COSINE", "M", "16", "EF_CONSTRUCTION", "200",
	}
	c.EXPECT().
		Do(gomock.Any(), mock.Match(want...)).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.CreateIndex(context.Background(), mustBuild(t, chunkIndexDef())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	err := s.CreateIndex(context.Background(), mustBuild(t, chunkIndexDef()))
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.CreateIndex(context.Background(), mustBuild(t, chunkIndexDef())); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestCreateIndex_InvalidDefinition(t *testing.T) {
	tests := []struct {
		name string
		def  *db.IndexDefinition
	}{
		{"nil", nil},
		{"no fields", &db.IndexDefinition{Name: "idx", Prefixes: []string{"p:"}}},
		{"no prefix", &db.IndexDefinition{Name: "idx", Fields: []db.Field{{Name: "f", Kind: db.FieldText}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)

			err := NewStoreForTest(c).CreateIndex(context.Background(), tt.def)
			if !errors.Is(err, db.ErrInvalidIndex) {
				t.Fatalf("expected ErrInvalidIndex, got %v", err)
			}
		})
	}
}

func TestCreateIndex_ServerDefaultsOmitted(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	want := []string{
		"FT.CREATE", "idx", "ON", "HASH", "PREFIX", "1", "p:",
		"SCHEMA",
		"emb", "VECTOR", "HNSW", "6", "TYPE", "FLOAT32", "DIM", "3", "DISTANCE_METRIC", "L2",
	}
	c.EXPECT().
		Do(gomock.Any(), mock.Match(want...)).
		Return(mock.Result(mock.RedisString("OK")))

	def := mustBuild(t, db.NewIndex("idx").Prefix("p:").Vector("emb", db.VectorOptions{Dim: 3, Distance: db.DistanceL2}))
	if err := NewStoreForTest(c).CreateIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDropIndex_WithDocuments(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "idx", "DD")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.DropIndex(context.Background(), "idx", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	if err := s.DropIndex(context.Background(), "idx", false); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	tests := []struct {
		name    string
		result  rueidis.RedisResult
		want    bool
		wantErr bool
	}{
		{
			name:   "exists",
			result: mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("idx"))),
			want:   true,
		},
		{
			name:   "unknown index",
			result: mock.Result(mock.RedisError("Unknown Index name")),
			want:   false,
		},
		{
			name:    "connection error",
			result:  mock.ErrorResult(context.DeadlineExceeded),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().Do(gomock.Any(), mock.Match("FT.INFO", "idx")).Return(tt.result)

			got, err := NewStoreForTest(c).IndexExists(context.Background(), "idx")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("IndexExists = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- search.go tests ---

func TestSearchKNN_WithFileFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" &&
				cmd[1] == "idx" &&
				cmd[2] == `(@file_name:{Jan\ CV\.pdf})=>[KNN 2 @vector $BLOB]` &&
				slices.Contains(cmd, "__vector_score") &&
				slices.Contains(cmd, "DIALECT")
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("cvdex:chunk:1"),
			mock.RedisArray(
				mock.RedisString("__vector_score"),
				mock.RedisString("0.1"), // distance 0.1 -> similarity 0.9
				mock.RedisString("__content"),
				mock.RedisString("hello"),
				mock.RedisString("file_name"),
				mock.RedisString("Jan CV.pdf"),
			),
		)))

	cond, _ := filter.NewMatch("file_name", "Jan CV.pdf")
	expr, _ := filter.NewExpression(cond)

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:    "idx",
		Filters:      expr,
		Vector:       []float32{0.1, 0.2},
		K:            2,
		ReturnFields: []string{"__content", "file_name"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	e := result.Entries[0]
	if e.Key != "cvdex:chunk:1" || e.Fields["__content"] != "hello" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Score < 0.89 || e.Score > 0.91 {
		t.Errorf("score = %f, want ~0.9", e.Score)
	}
	if _, ok := e.Fields["__vector_score"]; ok {
		t.Error("__vector_score must be stripped from fields")
	}
}

func TestSearchKNN_NoFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "*=>[KNN 10 @vector $BLOB]"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "idx",
		Vector:    []float32{0.1},
		K:         10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(result.Entries))
	}
}

func TestSearchKNN_ClampsNegativeSimilarity(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("k"),
			mock.RedisArray(mock.RedisString("__vector_score"), mock.RedisString("1.4")),
		)))

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{IndexName: "idx", Vector: []float32{1}, K: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Entries[0].Score != 0 {
		t.Errorf("score = %f, want 0", result.Entries[0].Score)
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	s := NewStoreForTest(c)

	queries := []*db.KNNQuery{
		{Vector: []float32{1}, K: 1},
		{IndexName: "idx", K: 1},
		{IndexName: "idx", Vector: []float32{1}},
	}
	for _, q := range queries {
		if _, err := s.SearchKNN(context.Background(), q); err == nil {
			t.Errorf("expected validation error for %+v", q)
		}
	}
}

func TestSearchKNN_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{IndexName: "idx", Vector: []float32{1}, K: 1})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestSearchKNN_CustomVectorField(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "*=>[KNN 3 @emb $BLOB]"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	res, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "idx", VectorField: "emb", Vector: []float32{1}, K: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Entries) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestSearchCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx", "*", "LIMIT", "0", "0", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(7))))

	s := NewStoreForTest(c)
	n, err := s.SearchCount(context.Background(), "idx", "*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("count = %d, want 7", n)
	}
}

func TestSearchDistinct(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.AGGREGATE", "idx", "*",
			"LOAD", "1", "@file_name",
			"GROUPBY", "1", "@file_name",
			"LIMIT", "0", "100",
			"DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(3),
			mock.RedisArray(mock.RedisString("file_name"), mock.RedisString("A.pdf")),
			mock.RedisArray(mock.RedisString("file_name"), mock.RedisString("B.pdf")),
			mock.RedisArray(mock.RedisString("file_name"), mock.RedisString("A.pdf")),
		)))

	s := NewStoreForTest(c)
	got, err := s.SearchDistinct(context.Background(), &db.DistinctQuery{
		IndexName: "idx",
		Field:     "file_name",
		Limit:     100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []string{"A.pdf", "B.pdf"}) {
		t.Errorf("got %v, want [A.pdf B.pdf]", got)
	}
}

func TestSearchDistinct_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	got, err := s.SearchDistinct(context.Background(), &db.DistinctQuery{IndexName: "idx", Field: "file_name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no values, got %v", got)
	}
}

func TestSearchDistinct_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisError("idx: no such index")))

	s := NewStoreForTest(c)
	_, err := s.SearchDistinct(context.Background(), &db.DistinctQuery{IndexName: "idx", Field: "file_name"})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestBuildTagFilter_Escaping(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"plain", "@file_name:{plain}"},
		{"A.pdf", `@file_name:{A\.pdf}`},
		{"Jan Kowalski-CV (2).pdf", `@file_name:{Jan\ Kowalski\-CV\ \(2\)\.pdf}`},
		{"a|b", `@file_name:{a\|b}`},
		{"Doe, Jane.pdf", `@file_name:{Doe\,\ Jane\.pdf}`},
	}
	for _, tt := range tests {
		if got := buildTagFilter("file_name", tt.value); got != tt.want {
			t.Errorf("buildTagFilter(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestVectorToBytes_LittleEndian(t *testing.T) {
	b := vectorToBytes([]float32{1})
	// float32(1) = 0x3F800000
	if b != "\x00\x00\x80\x3f" {
		t.Errorf("unexpected encoding: %q", b)
	}
}

func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}

func TestClientOption(t *testing.T) {
	opt := clientOption(Config{Addrs: []string{"localhost:6379"}, Password: "pw", DB: 2})
	if !opt.AlwaysRESP2 || !opt.DisableCache {
		t.Error("FT replies need RESP2 without client-side caching")
	}
	if opt.SelectDB != 2 || opt.Password != "pw" || opt.ClientName != "cvdex" {
		t.Errorf("unexpected option %+v", opt)
	}
}

func TestNewStore_RequiresAddress(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error without addresses")
	}
}
