// Package common holds helpers shared by tests that need external services.
package common

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	appcommon "github.com/bobmcallan/fintrack/internal/common"
)

// SurrealDBImage is the server image started for storage tests.
const SurrealDBImage = "surrealdb/surrealdb:v3.0.0"

// SurrealDBAddressEnv names an already running server to use instead of a container.
const SurrealDBAddressEnv = "FINTRACK_TEST_SURREALDB_ADDRESS"

const (
	surrealUser      = "root"
	surrealPass      = "root"
	surrealNamespace = "fintrack_test"
)

var (
	surrealOnce   sync.Once
	surrealServer *SurrealDB
	surrealErr    error
)

// SurrealDB is a SurrealDB server shared by every test in the process.
type SurrealDB struct {
	container testcontainers.Container
	address   string
}

// StartSurrealDB returns the shared server, starting a container on first
// use. Tests are skipped in -short mode.
func StartSurrealDB(t *testing.T) *SurrealDB {
	t.Helper()
	if testing.Short() {
		t.Skip("SurrealDB tests skipped in -short mode")
	}

	surrealOnce.Do(func() {
		if addr := os.Getenv(SurrealDBAddressEnv); addr != "" {
			surrealServer = &SurrealDB{address: addr}
			return
		}
		surrealServer, surrealErr = startContainer(context.Background())
	})

	if surrealErr != nil {
		t.Fatalf("SurrealDB unavailable: %v", surrealErr)
	}
	return surrealServer
}

func startContainer(ctx context.Context) (*SurrealDB, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        SurrealDBImage,
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--user", surrealUser, "--pass", surrealPass},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("8000/tcp"),
				wait.ForLog("Started web server"),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		c.Terminate(ctx)
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := c.MappedPort(ctx, "8000/tcp")
	if err != nil {
		c.Terminate(ctx)
		return nil, fmt.Errorf("container port: %w", err)
	}

	return &SurrealDB{
		container: c,
		address:   fmt.Sprintf("ws://%s:%s/rpc", host, port.Port()),
	}, nil
}

// Address returns the WebSocket RPC address.
func (s *SurrealDB) Address() string { return s.address }

// Config returns storage settings for a database private to t, so tests
// never see each other's keys.
func (s *SurrealDB) Config(t *testing.T) appcommon.SurrealDBConfig {
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	return appcommon.SurrealDBConfig{
		Address:   s.address,
		Username:  surrealUser,
		Password:  surrealPass,
		Namespace: surrealNamespace,
		Database:  fmt.Sprintf("t_%s_%d", name, time.Now().UnixNano()%100000),
	}
}

// Terminate stops the container if one was started. Servers given through
// the environment are left running.
func (s *SurrealDB) Terminate() {
	if s != nil && s.container != nil {
		s.container.Terminate(context.Background())
	}
}
