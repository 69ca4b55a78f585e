package common

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"google.golang.org/api/option"

	appcommon "github.com/bobmcallan/fintrack/internal/common"
)

// FakeGCSImage is the Cloud Storage emulator started for storage tests.
const FakeGCSImage = "fsouza/fake-gcs-server:1.52.2"

// FakeGCSBucket is created once on the emulator; tests separate their keys
// with a prefix of their own.
const FakeGCSBucket = "fintrack-test"

var (
	gcsOnce   sync.Once
	gcsServer *FakeGCS
	gcsErr    error
)

// FakeGCS is a Cloud Storage emulator shared by every test in the process.
type FakeGCS struct {
	container testcontainers.Container
	host      string
}

// StartFakeGCS returns the shared emulator, starting it on first use.
// Tests are skipped in -short mode.
func StartFakeGCS(t *testing.T) *FakeGCS {
	t.Helper()
	if testing.Short() {
		t.Skip("GCS emulator tests skipped in -short mode")
	}

	gcsOnce.Do(func() {
		gcsServer, gcsErr = startFakeGCS(context.Background())
	})

	if gcsErr != nil {
		t.Fatalf("GCS emulator unavailable: %v", gcsErr)
	}
	return gcsServer
}

func startFakeGCS(ctx context.Context) (*FakeGCS, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        FakeGCSImage,
			ExposedPorts: []string{"4443/tcp"},
			Cmd:          []string{"-scheme", "http", "-port", "4443"},
			WaitingFor: wait.ForHTTP("/storage/v1/b").
				WithPort("4443/tcp").
				WithStartupTimeout(60 * time.Second),
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
	port, err := c.MappedPort(ctx, "4443/tcp")
	if err != nil {
		c.Terminate(ctx)
		return nil, fmt.Errorf("container port: %w", err)
	}

	server := &FakeGCS{container: c, host: fmt.Sprintf("%s:%s", host, port.Port())}
	if err := server.createBucket(ctx); err != nil {
		c.Terminate(ctx)
		return nil, err
	}
	return server, nil
}

func (f *FakeGCS) createBucket(ctx context.Context) error {
	client, err := storage.NewClient(ctx,
		option.WithEndpoint("http://"+f.host+"/storage/v1/"),
		option.WithoutAuthentication(),
	)
	if err != nil {
		return fmt.Errorf("emulator client: %w", err)
	}
	defer client.Close()

	if err := client.Bucket(FakeGCSBucket).Create(ctx, "fintrack", nil); err != nil {
		return fmt.Errorf("create bucket %s: %w", FakeGCSBucket, err)
	}
	return nil
}

// Host returns the emulator address in the form STORAGE_EMULATOR_HOST expects.
func (f *FakeGCS) Host() string { return f.host }

// Config points the storage client at the emulator for the duration of t and
// returns settings with a key prefix private to t.
func (f *FakeGCS) Config(t *testing.T) appcommon.GCSConfig {
	t.Setenv("STORAGE_EMULATOR_HOST", f.host)

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	return appcommon.GCSConfig{
		Bucket: FakeGCSBucket,
		Prefix: fmt.Sprintf("t_%s_%d", name, time.Now().UnixNano()%100000),
	}
}

// Terminate stops the emulator container.
func (f *FakeGCS) Terminate() {
	if f != nil && f.container != nil {
		f.container.Terminate(context.Background())
	}
}
