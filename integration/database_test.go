//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/huangsam/slipstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startContainer starts req and returns the host:port of its first exposed port.
func startContainer(t *testing.T, req testcontainers.ContainerRequest, port string) (string, string) {
	t.Helper()
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err)
	return host, mapped.Port()
}

// exerciseBackends runs the full parse, aggregate and maintenance flow
// against a SQL backend used for both the cache and history.
func exerciseBackends(t *testing.T, backend, connStr string) {
	env := []string{
		"SLIPSTAT_CACHE_BACKEND=" + backend,
		"SLIPSTAT_CACHE_DB_CONNECT=" + connStr,
		"SLIPSTAT_HISTORY_BACKEND=" + backend,
		"SLIPSTAT_HISTORY_DB_CONNECT=" + connStr,
		"SLIPSTAT_COLOR=no",
	}

	_, err := runCommand(t, env, "cache", "clear")
	require.NoError(t, err)
	_, err = runCommand(t, env, "history", "clear")
	require.NoError(t, err)

	out, err := runCommand(t, env, "history", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully migrated")

	replays := writeReplays(t, 2)
	records := t.TempDir()
	for _, replay := range replays {
		_, err = runCommand(t, env, "parse", replay, "--save-dir", records)
		require.NoError(t, err)
	}
	// Second parse of the same replay is served from the cache
	_, err = runCommand(t, env, "parse", replays[0])
	require.NoError(t, err)

	_, err = runCommand(t, env, "aggregate", records)
	require.NoError(t, err)

	out, err = runCommand(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Entries")

	out, err = runCommand(t, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs")
}

func TestSlipstatWithMySQL(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "slipstat",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}, "3306")

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/slipstat?parseTime=true&multiStatements=true", host, port)
	exerciseBackends(t, "mysql", connStr)
}

func TestSlipstatWithPostgres(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432")

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port)
	exerciseBackends(t, "postgresql", connStr)
}

func TestSlipstatWithRedis(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}, "6379")

	env := []string{
		"SLIPSTAT_CACHE_BACKEND=none",
		"SLIPSTAT_REDIS_ADDR=" + fmt.Sprintf("redis://%s:%s/0", host, port),
		"SLIPSTAT_REDIS_KEY=slipstat:test",
	}

	for _, replay := range writeReplays(t, 3) {
		_, err := runCommand(t, env, "parse", replay, "--publish")
		require.NoError(t, err)
	}

	out, err := runCommand(t, env, "aggregate", "--source", "redis", "--output", "json")
	require.NoError(t, err)

	var stats schema.AggregatedStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, uint32(3), stats.TotalGames)
	assert.Len(t, stats.Players, 6)
}
