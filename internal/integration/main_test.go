//go:build integration

package integration

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/KaranKool/mishtee-mitra/internal/gateway/postgres"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

const appName = "mishtee-mitra-integration"

var (
	pool   *pgxpool.Pool
	schema string
)

// Tables mirror the externally owned store; ids are text so the tests can
// use readable keys.
const schemaDDL = `
    CREATE TABLE agents (
        id           TEXT PRIMARY KEY,
        phone_number TEXT NOT NULL,
        name         TEXT
    );
    CREATE TABLE customers (
        id        TEXT PRIMARY KEY,
        full_name TEXT,
        address   TEXT,
        latitude  DOUBLE PRECISION,
        longitude DOUBLE PRECISION
    );
    CREATE TABLE jobs (
        id          TEXT PRIMARY KEY,
        status      TEXT NOT NULL,
        quantity    INTEGER,
        cod_amount  NUMERIC(10, 2),
        agent_id    TEXT REFERENCES agents(id),
        customer_id TEXT REFERENCES customers(id),
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    );
`

// TestMain creates a throwaway schema in the database named by
// MITRA_TEST_DATABASE_URL and drops it afterwards.
func TestMain(m *testing.M) {
	utils.InitLogger(appName)

	dbURL := os.Getenv("MITRA_TEST_DATABASE_URL")
	if dbURL == "" {
		log.Fatal("MITRA_TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	schema = "mitra_it_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	admin, err := postgres.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	if _, err := admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	scoped, err := withSearchPath(dbURL, schema)
	if err != nil {
		log.Fatalf("search path: %v", err)
	}
	pool, err = postgres.Connect(ctx, scoped)
	if err != nil {
		log.Fatalf("connect scoped: %v", err)
	}
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	code := m.Run()

	pool.Close()
	if _, err := admin.Exec(ctx, fmt.Sprintf("DROP SCHEMA %s CASCADE", schema)); err != nil {
		log.Printf("drop schema %s: %v", schema, err)
	}
	admin.Close()
	os.Exit(code)
}

func withSearchPath(dbURL, schema string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
