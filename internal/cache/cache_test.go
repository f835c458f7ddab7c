package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStableAndSeparatesParts(t *testing.T) {
	a := Key("transcription", []byte("ab"), []byte("c"))
	b := Key("transcription", []byte("ab"), []byte("c"))
	c := Key("transcription", []byte("a"), []byte("bc"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "transcription:")
}

func TestNoopNeverHits(t *testing.T) {
	var n Noop
	require.NoError(t, n.SetJSON(context.Background(), "k", "v", time.Minute))

	var out string
	hit, err := n.GetJSON(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCachePrefix(t *testing.T) {
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "")
	assert.Equal(t, "voicetranslate:abc", c.key("abc"))
	assert.NoError(t, c.Del(context.Background()))
}
