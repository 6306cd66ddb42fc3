package library

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wenyan/internal/logging"
	"github.com/abhisek/wenyan/internal/reader"
	"github.com/abhisek/wenyan/internal/store"
)

type memKV struct {
	mu     sync.Mutex
	data   map[string]string
	setErr error
	getErr error
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func TestLoadAbsentIsEmpty(t *testing.T) {
	a := New(newMemKV(), logging.NewNop())
	lib := a.LoadLibrary(context.Background())
	assert.NotNil(t, lib)
	assert.Empty(t, lib)
}

func TestRoundTripPreservesOrder(t *testing.T) {
	kv := newMemKV()
	a := New(kv, logging.NewNop())
	ctx := context.Background()

	lib := reader.Library{
		{ID: 3, Content: "學而時習之"},
		{ID: 1, Content: "師者，所以傳道、受業、解惑也。"},
		{ID: 2, Content: "  spaced\ncontent  "},
	}
	a.SaveLibrary(ctx, lib)

	assert.JSONEq(t,
		`[{"id":3,"content":"學而時習之"},{"id":1,"content":"師者，所以傳道、受業、解惑也。"},{"id":2,"content":"  spaced\ncontent  "}]`,
		kv.data[Key])
	assert.Equal(t, lib, a.LoadLibrary(ctx))
}

func TestSaveEmptyWritesEmptyList(t *testing.T) {
	kv := newMemKV()
	New(kv, logging.NewNop()).SaveLibrary(context.Background(), nil)
	assert.Equal(t, "[]", kv.data[Key])
}

func TestLoadMalformedIsEmpty(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{"id":1}`,
		`[{"id":"x","content":1}]`,
		`null`,
		`[{"foo":1},{"id":0}]`,
		`[{"id":0,"content":"零"}]`,
		`[{"id":-3,"content":"負"}]`,
		`[{"id":1.5,"content":"半"}]`,
		`[{"id":2,"content":"甲"},{"id":2,"content":"乙"}]`,
	} {
		t.Run(raw, func(t *testing.T) {
			kv := newMemKV()
			kv.data[Key] = raw
			lib := New(kv, logging.NewNop()).LoadLibrary(context.Background())
			assert.NotNil(t, lib)
			assert.Empty(t, lib)
		})
	}
}

func TestDecodeAcceptsWellFormed(t *testing.T) {
	lib, err := Decode(`[{"id":7,"content":"學而時習之"},{"id":3,"content":""}]`)
	require.NoError(t, err)
	assert.Equal(t, reader.Library{{ID: 7, Content: "學而時習之"}, {ID: 3, Content: ""}}, lib)

	lib, err = Decode(`[]`)
	require.NoError(t, err)
	assert.NotNil(t, lib)
	assert.Empty(t, lib)
}

func TestStoreFailuresAreSwallowed(t *testing.T) {
	kv := newMemKV()
	kv.getErr = &store.UnavailableError{Op: "get", Err: errors.New("disk gone")}
	kv.setErr = &store.UnavailableError{Op: "set", Err: errors.New("disk gone")}
	a := New(kv, logging.NewNop())

	assert.Empty(t, a.LoadLibrary(context.Background()))
	assert.NotPanics(t, func() {
		a.SaveLibrary(context.Background(), reader.Library{{ID: 1, Content: "x"}})
	})
}

func TestAdapterOverSQLite(t *testing.T) {
	s, err := store.Open("file:library_sqlite?mode=memory&cache=shared")
	require.NoError(t, err)
	defer s.Close()

	a := New(s.KV(), logging.NewNop())
	ctx := context.Background()
	a.SaveLibrary(ctx, reader.Library{{ID: 10, Content: "溫故而知新"}})

	assert.Equal(t, reader.Library{{ID: 10, Content: "溫故而知新"}}, a.LoadLibrary(ctx))
}

func TestAdapterOverRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	kv := store.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer kv.Close()

	a := New(kv, logging.NewNop())
	ctx := context.Background()
	a.SaveLibrary(ctx, reader.Library{{ID: 1, Content: "有朋自遠方來"}})

	assert.Equal(t, reader.Library{{ID: 1, Content: "有朋自遠方來"}}, a.LoadLibrary(ctx))
	assert.True(t, mr.Exists("wenyan:"+Key))
}
