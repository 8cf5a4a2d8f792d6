package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davidhuanca/mayorista-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir failed: %v", err)
	}
}

func TestProductosMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_productos_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS productos",
		"precio_l1",
		"precio_l4",
		"CHECK (stock >= 0)",
		"agotado",
		"cantidad_mayoreo",
		"CREATE UNIQUE INDEX IF NOT EXISTS productos_codigo_sku_key",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPedidosMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_pedidos_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS pedidos",
		"estado",
		"fecha_pedido",
		"CREATE INDEX IF NOT EXISTS idx_pedidos_fecha",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOutboxMigrationHasUnpublishedIndex(t *testing.T) {
	content := readMigration(t, "*_create_outbox_events_table.sql")
	if !strings.Contains(content, "WHERE published_at IS NULL") {
		t.Error("missing partial index for unpublished events")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
