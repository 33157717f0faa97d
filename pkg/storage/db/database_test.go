package db_test

import (
	"os"
	"testing"

	"hlwatcher/config"
	"hlwatcher/pkg/storage/db"

	"github.com/stretchr/testify/require"
)

// Needs a local postgres: HLWATCHER_TEST_POSTGRES=1 go test -v --run TestCreateDatabase
func TestCreateDatabase(t *testing.T) {
	if os.Getenv("HLWATCHER_TEST_POSTGRES") == "" {
		t.Skip("HLWATCHER_TEST_POSTGRES not set")
	}

	cfg := config.PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: os.Getenv("PGPASSWORD"),
		DBName:   "test_hlwatcher_db",
		SSLMode:  "disable",
	}

	require.NoError(t, db.CreateDatabase(cfg, "dev"))
	// second call finds the existing database
	require.NoError(t, db.CreateDatabase(cfg, "dev"))
}
