package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const pingTimeout = 3 * time.Second

// Ping checks a live connection from the pool, bounded by pingTimeout.
func Ping(ctx context.Context, db *sqlx.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return db.PingContext(ctx)
}

func dsn(cfg config.PostgresConfig, dbname string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, dbname, cfg.SSLMode)
}

// ConnectAndCreateDB connects to the target database, creating it and
// applying schema.sql when it does not exist yet.
func ConnectAndCreateDB(cfg config.PostgresConfig, log *zap.Logger) (*sqlx.DB, error) {
	log.Info("connecting to postgres",
		zap.String("host", cfg.Host), zap.String("port", cfg.Port),
		zap.String("user", cfg.Username), zap.String("dbname", cfg.DBname))

	defaultDB, err := sql.Open("postgres", dsn(cfg, "postgres"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to default postgres db: %w", err)
	}
	defer defaultDB.Close()

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`
	if err := defaultDB.QueryRow(checkQuery, cfg.DBname).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		createQuery := fmt.Sprintf(`CREATE DATABASE "%s"`, cfg.DBname)
		if _, err := defaultDB.Exec(createQuery); err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", cfg.DBname, err)
		}
		log.Info("database created", zap.String("dbname", cfg.DBname))
	}

	db, err := sqlx.Connect("postgres", dsn(cfg, cfg.DBname))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to target database: %w", err)
	}

	if !exists {
		if err := executeSchema(db, log); err != nil {
			// leave room for manual schema setup
			log.Warn("failed to execute schema.sql", zap.Error(err))
		}
	}

	return db, nil
}

func executeSchema(db *sqlx.DB, log *zap.Logger) error {
	schemaLocations := []string{
		"schema.sql",
		"/app/schema.sql",
		filepath.Join(os.Getenv("PWD"), "schema.sql"),
	}

	var schemaPath string
	for _, location := range schemaLocations {
		if _, err := os.Stat(location); err == nil {
			schemaPath = location
			break
		}
	}
	if schemaPath == "" {
		return fmt.Errorf("schema.sql not found in any expected locations: %v", schemaLocations)
	}

	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema.sql from %s: %w", schemaPath, err)
	}

	log.Info("executing schema", zap.String("path", schemaPath))
	executed := ApplySchema(db, string(content), log)
	log.Info("schema execution completed", zap.Int("statements", executed))
	return nil
}

// ApplySchema runs each ;-separated statement, logging and skipping failures.
// It returns the number of statements that succeeded.
func ApplySchema(db sqlx.Execer, schema string, log *zap.Logger) int {
	successCount := 0
	for i, statement := range strings.Split(schema, ";") {
		statement = stripComments(statement)
		if statement == "" {
			continue
		}
		if _, err := db.Exec(statement); err != nil {
			log.Warn("failed to execute statement",
				zap.Int("index", i+1),
				zap.String("statement", statement[:min(100, len(statement))]),
				zap.Error(err))
			continue
		}
		successCount++
	}
	return successCount
}

func stripComments(statement string) string {
	lines := strings.Split(statement, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// RetryConnectOnFailed keeps reconnecting until a connection succeeds.
func RetryConnectOnFailed(wait time.Duration, db **sqlx.DB, cfg config.PostgresConfig, log *zap.Logger) {
	for {
		if *db != nil {
			if err := Ping(context.Background(), *db); err == nil {
				log.Info("database connection is healthy, no retry needed")
				return
			}
		}

		newDB, err := ConnectAndCreateDB(cfg, log)
		if err == nil {
			*db = newDB
			log.Info("database retry connection successful")
			return
		}
		log.Warn("failed to retry connect database", zap.Error(err), zap.Duration("next_retry", wait))
		time.Sleep(wait)
	}
}
