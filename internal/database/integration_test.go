package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cogassess/migrations"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(migrations.FS); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	tables := []string{
		"users", "students", "sessions", "questions",
		"student_answers", "student_section_time", "test_completed", "feedback",
	}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRow(query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running again is a no-op
	if err := db.RunMigrations(migrations.FS); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 recorded migration, got %d", count)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	insertUser := `INSERT INTO users (user_id, name, age, standard, mobile, date_of_birth, state)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.Exec(insertUser, "u-1", "Asha", 12, 7, 9876543210, "2012-04-01", "Kerala"); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE user_id = ?", "u-1").Scan(&count); err != nil {
		t.Fatalf("Failed to query user: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}

	tx, err = db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.Exec(insertUser, "u-2", "Ravi", 13, 8, 9876500000, "2011-02-03", "Goa"); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE user_id = ?", "u-2").Scan(&count); err != nil {
		t.Fatalf("Failed to query user: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected rolled back user to be absent, got %d", count)
	}
}

func TestExecReturningIDAndUpsert(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	id1, err := db.ExecReturningID("INSERT INTO feedback (name, mobile, email, query, created_at) VALUES (?, ?, ?, ?, ?)",
		"Asha", 9876543210, "asha@example.com", "first", time.Now().UTC())
	if err != nil {
		t.Fatalf("ExecReturningID failed: %v", err)
	}
	id2, err := db.ExecReturningID("INSERT INTO feedback (name, mobile, email, query, created_at) VALUES (?, ?, ?, ?, ?)",
		"Asha", 9876543210, "asha@example.com", "second", time.Now().UTC())
	if err != nil {
		t.Fatalf("ExecReturningID failed: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("Expected increasing ids, got %d then %d", id1, id2)
	}

	upsert := db.Dialect.UpsertQuery("questions",
		[]string{"question_id"},
		[]string{"question_id", "section", "topic", "correct_answer"},
		[]string{"section", "topic", "correct_answer"})

	if _, err := db.Exec(upsert, 1, "A", "Fractions", 2); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	if _, err := db.Exec(upsert, 1, "A", "Decimals", 3); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	var topic string
	var answer int
	if err := db.QueryRow("SELECT topic, correct_answer FROM questions WHERE question_id = ?", 1).Scan(&topic, &answer); err != nil {
		t.Fatalf("Failed to read question: %v", err)
	}
	if topic != "Decimals" || answer != 3 {
		t.Errorf("Upsert did not update row: topic=%q answer=%d", topic, answer)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)

	boom := errors.New("boom")
	err := db.WithTx(func(tx *Tx) error {
		if _, err := tx.Exec(`INSERT INTO feedback (name, mobile, email, query, created_at) VALUES (?, ?, ?, ?, ?)`,
			"Asha", 1, "a@example.com", "hello", time.Now()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want %v", err, boom)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM feedback").Scan(&count); err != nil {
		t.Fatalf("Failed to count feedback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected rolled back insert, got %d rows", count)
	}
}

// TestSQLiteSettingsOnEveryConnection holds two pooled connections at once
// so the second is freshly opened, then checks both carry the settings.
func TestSQLiteSettingsOnEveryConnection(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn() error = %v", err)
	}
	defer first.Close()
	second, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn() error = %v", err)
	}
	defer second.Close()

	for i, conn := range []interface {
		QueryRowContext(context.Context, string, ...any) *sql.Row
	}{first, second} {
		var fk, busy int
		var mode string
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn %d: foreign_keys error = %v", i, err)
		}
		if err := conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy); err != nil {
			t.Fatalf("conn %d: busy_timeout error = %v", i, err)
		}
		if err := conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("conn %d: journal_mode error = %v", i, err)
		}
		if fk != 1 || busy != 5000 || mode != "wal" {
			t.Errorf("conn %d: foreign_keys=%d busy_timeout=%d journal_mode=%s", i, fk, busy, mode)
		}
	}

	_, err = second.ExecContext(ctx,
		"INSERT INTO sessions (session_id, user_id, token, created_at, expires_at) VALUES (?, ?, ?, ?, ?)",
		"s1", "no-such-user", "tok", time.Now(), time.Now().Add(time.Hour))
	if err == nil {
		t.Error("insert referencing a missing user succeeded on second connection")
	}
}
