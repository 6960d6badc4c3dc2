// Package testdb starts a throwaway Postgres container for tests that need
// the real SQL guards rather than a fake store.
package testdb

import (
	"fmt"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/krizhnx/CarnivalLDN-sub000/config"
)

// Open runs a Postgres container, migrates the schema and returns a
// connection. The container is purged when the test finishes. Tests are
// skipped when no Docker daemon is reachable.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("skipping: could not construct docker pool: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("skipping: docker daemon not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=carnival_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("could not purge postgres container: %v", err)
		}
	})

	dsn := fmt.Sprintf(
		"host=localhost port=%s user=test password=test dbname=carnival_test sslmode=disable",
		resource.GetPort("5432/tcp"),
	)

	var db *gorm.DB
	if err := pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
			// Seeding test rows should not require the full relation graph.
			DisableForeignKeyConstraintWhenMigrating: true,
		})
		if openErr != nil {
			return openErr
		}
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}
		return sqlDB.Ping()
	}); err != nil {
		t.Fatalf("could not connect to postgres container: %v", err)
	}

	if err := config.Migrate(db); err != nil {
		t.Fatalf("could not migrate schema: %v", err)
	}
	return db
}
