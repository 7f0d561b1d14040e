package cache

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSessionStorageKeys(t *testing.T) {
	s := NewSessionStorage(unreachableClient(t), "session:")
	assert.Equal(t, "session:abc", s.key("abc"))
}

func TestSessionStorageSkipsEmptyInput(t *testing.T) {
	s := NewSessionStorage(unreachableClient(t), "session:")

	val, err := s.Get("")
	require.NoError(t, err)
	assert.Nil(t, val)

	assert.NoError(t, s.Set("id", nil, time.Minute))
	assert.NoError(t, s.Set("", []byte("x"), time.Minute))
	assert.NoError(t, s.Delete(""))
	assert.NoError(t, s.Close())
}

func TestSessionStorageSurfacesConnectionErrors(t *testing.T) {
	s := NewSessionStorage(unreachableClient(t), "session:")

	_, err := s.Get("id")
	assert.Error(t, err)
	assert.Error(t, s.Set("id", []byte("x"), time.Minute))
}

func TestNewRedisClientFailsWithoutServer(t *testing.T) {
	_, err := NewRedisClient(&Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
