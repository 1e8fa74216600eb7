// Package devdb starts a disposable MariaDB container for development
// and integration testing, with the corpus schema and loader privileges
// applied from the embedded init SQL.
package devdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bioctools/corpusload/data"
)

const (
	image        = "mariadb:11"
	databaseName = "corpus"
	rootPassword = "devroot"
)

// Container is a running dev database.
type Container struct {
	container testcontainers.Container
	Host      string
	Port      string
	Database  string
	User      string
	Password  string
}

// DSN returns a go-sql-driver DSN for the loader account.
func (c *Container) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// Terminate stops and removes the container.
func (c *Container) Terminate(ctx context.Context) error {
	if c.container == nil {
		return nil
	}
	return c.container.Terminate(ctx)
}

// StartMariaDB starts a MariaDB container and initializes the corpus
// schema and the loader account.
func StartMariaDB(ctx context.Context) (*Container, error) {
	tcpPort, err := nat.NewPort("tcp", "3306")
	if err != nil {
		return nil, fmt.Errorf("creating DB port: %w", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Name:         "corpusload-mariadb-" + uuid.NewString()[:8],
			Image:        image,
			ExposedPorts: []string{string(tcpPort)},
			Env: map[string]string{
				"MARIADB_ROOT_PASSWORD": rootPassword,
				"MARIADB_DATABASE":      databaseName,
			},
			WaitingFor: wait.ForListeningPort(tcpPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("starting %s: %w", image, err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("resolving container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("resolving mapped port: %w", err)
	}

	c := &Container{
		container: container,
		Host:      host,
		Port:      mapped.Port(),
		Database:  databaseName,
		User:      "loader",
		Password:  "loader",
	}

	if err := initSchema(ctx, c); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	return c, nil
}

// initSchema applies the embedded DDL as root. MariaDB restarts once
// during first boot, so the initial ping is retried.
func initSchema(ctx context.Context, c *Container) error {
	dsn := fmt.Sprintf("root:%s@tcp(%s:%s)/%s?multiStatements=true",
		rootPassword, c.Host, c.Port, c.Database)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("opening admin connection: %w", err)
	}
	defer db.Close()

	deadline := time.Now().Add(30 * time.Second)
	for {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("waiting for database: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}

	if _, err := db.ExecContext(ctx, data.InitdbMariaDBTables); err != nil {
		return fmt.Errorf("applying table DDL: %w", err)
	}
	if _, err := db.ExecContext(ctx, data.InitdbMariaDBPrivileges); err != nil {
		return fmt.Errorf("applying privilege DDL: %w", err)
	}
	return nil
}
