package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"fundmanager/pkg/models"
)

// SQLiteStore persists one JSON-serialized AppState row per partition key.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database and initializes the schema.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	// Manually enable foreign keys and WAL mode
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	log.Println("Database connection established and schema initialized.")
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS app_states (
		partition_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load fetches and decodes the state for a partition. Returns (nil, nil)
// when the partition has never been saved.
func (s *SQLiteStore) Load(partitionKey string) (*models.AppState, error) {
	var payload string
	row := s.db.QueryRow(`SELECT payload FROM app_states WHERE partition_key = ?`, partitionKey)
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load state for %s: %w", partitionKey, err)
	}

	var state models.AppState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, fmt.Errorf("failed to decode state for %s: %w", partitionKey, err)
	}
	return &state, nil
}

// Save upserts the partition's state as a single JSON payload.
func (s *SQLiteStore) Save(partitionKey string, state *models.AppState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state for %s: %w", partitionKey, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO app_states (partition_key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(partition_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		partitionKey, string(payload), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save state for %s: %w", partitionKey, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
