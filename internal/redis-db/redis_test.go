package redis_db

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRedisURL_DockerStyle(t *testing.T) {
	opts, err := ParseRedisURL("redis:6379", false)
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.Empty(t, opts.Password)
}

func TestParseRedisURL_WithScheme(t *testing.T) {
	opts, err := ParseRedisURL("redis://localhost:6379/0", false)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
}

func TestParseRedisURL_PasswordNoUsername(t *testing.T) {
	opts, err := ParseRedisURL("redis://secretpass@localhost:6380", false)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, "secretpass", opts.Password)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(mr.Addr(), false)
	require.NoError(t, err)
	assert.NotNil(t, client.Client())
	assert.NotNil(t, client.MakeRedisClient())
}

func TestNewRedisClient_EmptyAddress(t *testing.T) {
	_, err := NewRedisClient("", false)
	assert.Error(t, err)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient("127.0.0.1:1", false)
	assert.Error(t, err)
}
