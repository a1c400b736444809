package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// migrationsDir walks up from the working directory until it finds the module
// root, then returns its migrations directory.
func migrationsDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations"), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found in any parent directory")
		}
		dir = parent
	}
}

// NewTestDB starts a throwaway postgres container, runs all migrations and
// returns the connection plus cleanup and truncate helpers.
func NewTestDB(t *testing.T) (*sql.DB, func(), func()) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "blobvault",
				"POSTGRES_PASSWORD": "blobvault",
				"POSTGRES_DB":       "blobvault_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("could not resolve container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("could not resolve container port: %v", err)
	}
	dbURL := fmt.Sprintf("postgres://blobvault:blobvault@%s:%s/blobvault_test?sslmode=disable", host, port.Port())

	migrations, err := migrationsDir()
	if err != nil {
		t.Fatalf("could not locate migrations: %v", err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(migrations), dbURL)
	if err != nil {
		t.Fatalf("could not init migrate: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("could not run migrations: %v", err)
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("could not connect to postgres: %v", err)
	}

	cleanup := func() {
		db.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("could not terminate postgres container: %v", err)
		}
	}

	truncate := func() {
		_, err := db.Exec(`TRUNCATE TABLE outbox, external_download, upload_part, multipart_upload, upload_session, asset RESTART IDENTITY CASCADE`)
		if err != nil {
			t.Fatalf("could not truncate tables: %v", err)
		}
	}

	return db, cleanup, truncate
}
