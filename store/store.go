// store.go - Vorberechnete Produkt-Embeddings in SQLite
// Enthaelt: Store struct, Open, Close, Schema-Initialisierung, Versionspruefung
//
// Ein Eintrag ist ueber (model, product_id) eindeutig. Die Bild-Referenz wird
// mitgespeichert, damit ein Eintrag nach Katalog-Aenderungen als veraltet
// erkannt wird.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite-Treiber registrieren
)

// currentSchemaVersion wird bei Schema-Aenderungen erhoeht.
const currentSchemaVersion = 1

// ErrNewerSchema wird zurueckgegeben wenn die Datei von einer neueren Version stammt
var ErrNewerSchema = errors.New("store: database schema is newer than supported")

// Store haelt die SQLite-Verbindung.
// SQLite serialisiert Schreiber selbst, im WAL-Modus blockieren Leser nicht.
type Store struct {
	conn *sql.DB
}

// Open oeffnet (oder erstellt) die Embedding-Datenbank unter path.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.init(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return s, nil
}

// Close schliesst die Verbindung
func (s *Store) Close() error {
	_, _ = s.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	return s.conn.Close()
}

func (s *Store) init() error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		schema_version INTEGER NOT NULL DEFAULT %d
	);

	INSERT OR IGNORE INTO meta (id) VALUES (1);

	CREATE TABLE IF NOT EXISTS embeddings (
		model TEXT NOT NULL,
		product_id TEXT NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		dim INTEGER NOT NULL,
		vector BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (model, product_id)
	);
	`, currentSchemaVersion)

	if _, err := s.conn.Exec(schema); err != nil {
		return err
	}

	return s.checkVersion()
}

// checkVersion lehnt Dateien einer neueren Version ab
func (s *Store) checkVersion() error {
	version, err := s.schemaVersion()
	if err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	if version > currentSchemaVersion {
		return fmt.Errorf("%w: %d > %d", ErrNewerSchema, version, currentSchemaVersion)
	}
	return nil
}

func (s *Store) schemaVersion() (int, error) {
	var version int
	err := s.conn.QueryRow(`SELECT schema_version FROM meta`).Scan(&version)
	return version, err
}
