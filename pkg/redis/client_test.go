package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	client, err := NewClient(context.Background(), Config{Host: mr.Host(), Port: port}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestClient_JSON(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	require.NoError(t, client.SetJSON(ctx, "k", payload{Name: "vine", Count: 3}, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	var got payload
	require.NoError(t, client.GetJSON(ctx, "k", &got))
	assert.Equal(t, payload{Name: "vine", Count: 3}, got)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, client.GetJSON(ctx, "k", &got), ErrNil)
}

func TestClient_GetJSON_Missing(t *testing.T) {
	client, _ := newTestClient(t)
	var got payload
	assert.ErrorIs(t, client.GetJSON(context.Background(), "missing", &got), ErrNil)
}

func TestClient_GetJSON_Corrupt(t *testing.T) {
	client, mr := newTestClient(t)
	require.NoError(t, mr.Set("k", "{not json"))

	var got payload
	err := client.GetJSON(context.Background(), "k", &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNil)
}

func TestClient_Del(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	require.NoError(t, client.SetJSON(ctx, "k", payload{}, 0))

	require.NoError(t, client.Del(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestClient_Ping(t *testing.T) {
	client, _ := newTestClient(t)
	require.NoError(t, client.Ping(context.Background()))
}

func TestNewClient_Unreachable(t *testing.T) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	_, err := NewClient(context.Background(), Config{Host: "127.0.0.1", Port: 1}, logger)
	assert.Error(t, err)
}
