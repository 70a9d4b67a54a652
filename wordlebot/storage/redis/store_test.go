package redis

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/storage/storagetest"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

func checkDockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

func setupRedis(t *testing.T) *redis.Client {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

type sharedStore struct{ *Store }

func (sharedStore) Close() error { return nil }

func TestStore(t *testing.T) {
	rdb := setupRedis(t)

	storagetest.Run(t, func(t *testing.T) storage.Store {
		require.NoError(t, rdb.FlushDB(context.Background()).Err())
		return sharedStore{New(rdb, "test:")}
	})
}

func TestBoardIsStoredCompact(t *testing.T) {
	rdb := setupRedis(t)
	s := New(rdb, "")
	ctx := context.Background()

	_, err := s.LogResult(ctx, "alice", &wordle.Result{
		Game:    7,
		Guesses: 2,
		Board:   []string{"⬛🟨⬛⬛⬛", "🟩🟩🟩🟩🟩"},
		Date:    time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	raw, err := rdb.Get(ctx, "result:alice:7").Result()
	require.NoError(t, err)
	assert.Contains(t, raw, `"board":["BYBBB","GGGGG"]`)

	members, err := rdb.SMembers(ctx, "users").Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, members)
}

func TestEncodeDecodeResult(t *testing.T) {
	in := &wordle.Result{Game: 3, Guesses: wordle.Failed, Board: []string{"⬛⬛⬛⬛⬛"}, HardMode: true}

	data, err := encodeResult(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"⬛⬛⬛⬛⬛"}, in.Board, "input board untouched")

	out, err := decodeResult(string(data))
	require.NoError(t, err)
	assert.Equal(t, in.Board, out.Board)
	assert.True(t, out.HardMode)
}
