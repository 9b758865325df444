package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	// Packages
	chat "github.com/mutablelogic/go-chat"
	schema "github.com/mutablelogic/go-chat/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

// storeTests defines shared behavioural tests for any Store implementation.
var storeTests = []struct {
	Name string
	Fn   func(t *testing.T, s schema.Store)
}{{
	Name: "GetNotFound",
	Fn: func(t *testing.T, s schema.Store) {
		assert := assert.New(t)
		_, err := s.Get(context.Background(), schema.TokenKey)
		assert.ErrorIs(err, chat.ErrNotFound)
	},
}, {
	Name: "SetAndGet",
	Fn: func(t *testing.T, s schema.Store) {
		assert := assert.New(t)
		ctx := context.Background()

		assert.NoError(s.Set(ctx, schema.TokenKey, "T"))
		assert.NoError(s.Set(ctx, schema.UserKey, `{"id":1,"email":"a@b.com"}`))

		token, err := s.Get(ctx, schema.TokenKey)
		assert.NoError(err)
		assert.Equal("T", token)

		user, err := s.Get(ctx, schema.UserKey)
		assert.NoError(err)
		assert.JSONEq(`{"id":1,"email":"a@b.com"}`, user)
	},
}, {
	Name: "Overwrite",
	Fn: func(t *testing.T, s schema.Store) {
		assert := assert.New(t)
		ctx := context.Background()

		assert.NoError(s.Set(ctx, schema.TokenKey, "first"))
		assert.NoError(s.Set(ctx, schema.TokenKey, "second"))

		token, err := s.Get(ctx, schema.TokenKey)
		assert.NoError(err)
		assert.Equal("second", token)
	},
}, {
	Name: "EmptyValue",
	Fn: func(t *testing.T, s schema.Store) {
		assert := assert.New(t)
		ctx := context.Background()

		assert.NoError(s.Set(ctx, schema.TokenKey, ""))
		token, err := s.Get(ctx, schema.TokenKey)
		assert.NoError(err)
		assert.Equal("", token)
	},
}, {
	Name: "EmptyKey",
	Fn: func(t *testing.T, s schema.Store) {
		assert := assert.New(t)
		err := s.Set(context.Background(), "", "value")
		assert.ErrorIs(err, chat.ErrBadParameter)
	},
}, {
	Name: "Delete",
	Fn: func(t *testing.T, s schema.Store) {
		assert := assert.New(t)
		ctx := context.Background()

		assert.NoError(s.Set(ctx, schema.TokenKey, "T"))
		assert.NoError(s.Delete(ctx, schema.TokenKey))

		_, err := s.Get(ctx, schema.TokenKey)
		assert.True(errors.Is(err, chat.ErrNotFound))

		// Deleting again is not an error
		assert.NoError(s.Delete(ctx, schema.TokenKey))
	},
}, {
	Name: "DeleteLeavesOtherKeys",
	Fn: func(t *testing.T, s schema.Store) {
		assert := assert.New(t)
		ctx := context.Background()

		assert.NoError(s.Set(ctx, schema.TokenKey, "T"))
		assert.NoError(s.Set(ctx, schema.UserKey, "{}"))
		assert.NoError(s.Delete(ctx, schema.TokenKey))

		user, err := s.Get(ctx, schema.UserKey)
		assert.NoError(err)
		assert.Equal("{}", user)
	},
}, {
	Name: "Concurrent",
	Fn: func(t *testing.T, s schema.Store) {
		assert := assert.New(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := range 4 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(s.Set(ctx, schema.TokenKey, fmt.Sprint("token-", i)))
			}(i)
		}
		wg.Wait()

		// Last write wins, whichever it was
		token, err := s.Get(ctx, schema.TokenKey)
		assert.NoError(err)
		assert.Contains([]string{"token-0", "token-1", "token-2", "token-3"}, token)
	},
}}

// runStoreTests runs the shared behavioural tests against a store
// created fresh for each test.
func runStoreTests(t *testing.T, fn func() schema.Store) {
	t.Helper()
	for _, test := range storeTests {
		t.Run(test.Name, func(t *testing.T) {
			test.Fn(t, fn())
		})
	}
}
