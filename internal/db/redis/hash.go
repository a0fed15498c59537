package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/cvdex/internal/db"
)

// HSetMulti writes every item in one DoMulti round-trip. The first failing key is reported.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make(rueidis.Commands, 0, len(items))
	for _, item := range items {
		if len(item.Fields) == 0 {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: no fields", item.Key)}
		}
		fv := s.b().Hset().Key(item.Key).FieldValue()
		for k, v := range item.Fields {
			fv = fv.FieldValue(k, v)
		}
		cmds = append(cmds, fv.Build())
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: %w", items[i].Key, err)}
		}
	}
	return nil
}
