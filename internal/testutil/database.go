package testutil

import (
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"storefront/internal/infrastructure/database"
)

// SetupTestDB abre la BD de prueba.
// Por defecto espera MySQL en localhost:3306 con una BD 'storefront_test';
// TEST_DB_DRIVER y TEST_DB_DSN permiten apuntar a otra (p.ej. postgres).
func SetupTestDB(t *testing.T) *sqlx.DB {
	driver := os.Getenv("TEST_DB_DRIVER")
	if driver == "" {
		driver = "mysql"
	}
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/storefront_test?parseTime=true&multiStatements=true&clientFoundRows=true"
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB limpia la BD de prueba
func CleanupTestDB(t *testing.T, db *sqlx.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"order_items", "orders", "coupon_redemptions", "coupons",
		"menu_item_flavors", "flavor_prices", "flavor_options", "menu_items",
		"customer_profiles", "delivery_businesses",
	}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables aplica las migraciones embebidas
func SetupTestTables(t *testing.T, db *sqlx.DB) {
	if err := database.Migrate(db, database.Up, zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// Exec ejecuta una sentencia de fixture con placeholders '?' reescritos para el driver.
func Exec(t *testing.T, db *sqlx.DB, query string, args ...interface{}) {
	t.Helper()
	if _, err := db.Exec(db.Rebind(query), args...); err != nil {
		t.Fatalf("fixture failed: %v", err)
	}
}
