package store

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"ledgerbot/internal/config"
)

var testSchemaNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// openStore gives each test its own schema on TEST_POSTGRES_DSN and drops it
// afterwards. Tests skip when no test database is configured.
func openStore(t *testing.T) (*Store, context.Context, func()) {
	t.Helper()
	cfg, err := config.LoadTest()
	if err != nil {
		t.Skipf("skip test db: %v", err)
	}
	dsn := cfg.TestPostgresDSN
	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())
	if !testSchemaNamePattern.MatchString(schema) {
		t.Fatalf("schema %q does not match required pattern", schema)
	}

	base, err := New(dsn)
	if err != nil {
		t.Fatalf("open base db: %v", err)
	}
	if _, err := base.DB.ExecContext(context.Background(), fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		base.Close()
		t.Fatalf("create schema: %v", err)
	}
	base.Close()

	st, err := New(withSearchPath(dsn, schema))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()
	if err := st.Bootstrap(ctx); err != nil {
		st.Close()
		t.Fatalf("bootstrap schema: %v", err)
	}

	cleanup := func() {
		st.Close()
		base, err := New(dsn)
		if err == nil {
			_, _ = base.DB.ExecContext(context.Background(), fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
			base.Close()
		}
	}
	return st, ctx, cleanup
}

func withSearchPath(dsn, schema string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "search_path=" + url.QueryEscape(schema)
}
