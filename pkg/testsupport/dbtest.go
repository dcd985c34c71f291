package testsupport

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// MemoryDSN returns a sqlite DSN naming a fresh in-memory database.
func MemoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
}

// NewSQLiteMemoryDB opens a private in-memory database. Every call gets its
// own database so parallel tests never see each other's tables.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", MemoryDSN())
}

// NewBunDB wraps a fresh in-memory database with the sqlite dialect and
// closes it when the test ends.
func NewBunDB(tb testing.TB) *bun.DB {
	tb.Helper()
	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		tb.Fatalf("new sqlite db: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
