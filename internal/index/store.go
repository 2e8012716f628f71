package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"pseudonym/internal/config"
)

// ErrNoSerial marks accessions that are registered but have no serial
// assigned yet.
var ErrNoSerial = errors.New("no serial for accession")

// Store manages identity persistence backed by SQLite.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Open initializes or connects to the index database and verifies its
// schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.StoreDir, "index.db"))
}

// OpenPath opens the index database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RegisterAccession records an accession number. Registration is
// idempotent; re-registering an existing accession keeps its serial.
func (s *Store) RegisterAccession(ctx context.Context, accession string) error {
	if accession == "" {
		return errors.New("accession is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO accessions (accession) VALUES (?)`, accession,
	); err != nil {
		return fmt.Errorf("register accession: %w", err)
	}
	return nil
}

// AssignSerial sets the serial for a registered accession.
func (s *Store) AssignSerial(ctx context.Context, accession, serial string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE accessions SET serial = ? WHERE accession = ?`, serial, accession,
	)
	if err != nil {
		return fmt.Errorf("assign serial: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign serial: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("assign serial: accession %q not registered", accession)
	}
	return nil
}

// SerialFor returns the serial assigned to an accession. Unregistered
// accessions and registered accessions without a serial both return
// ErrNoSerial.
func (s *Store) SerialFor(ctx context.Context, accession string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var serial sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT serial FROM accessions WHERE accession = ?`, accession,
	).Scan(&serial)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("accession %q: %w", accession, ErrNoSerial)
	}
	if err != nil {
		return "", fmt.Errorf("lookup serial: %w", err)
	}
	if !serial.Valid || serial.String == "" {
		return "", fmt.Errorf("accession %q: %w", accession, ErrNoSerial)
	}
	return serial.String, nil
}

// SearchAccession returns the first accession containing fragment, in
// registration order, or "" when none matches. Ambiguous fragments resolve
// to the earliest registered match; callers must keep fragments unique
// enough for that to be acceptable.
func (s *Store) SearchAccession(ctx context.Context, fragment string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var accession string
	err := s.db.QueryRowContext(ctx,
		`SELECT accession FROM accessions WHERE accession LIKE ? ORDER BY id LIMIT 1`,
		"%"+fragment+"%",
	).Scan(&accession)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("search accession: %w", err)
	}
	return accession, nil
}

// HasFingerprint reports whether hash is already registered.
func (s *Store) HasFingerprint(ctx context.Context, hash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM fingerprints WHERE hash = ?`, hash,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check fingerprint: %w", err)
	}
	return true, nil
}

// AddFingerprint registers a fingerprint hash. Idempotent.
func (s *Store) AddFingerprint(ctx context.Context, hash string) error {
	if hash == "" {
		return errors.New("fingerprint hash is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO fingerprints (hash) VALUES (?)`, hash,
	); err != nil {
		return fmt.Errorf("add fingerprint: %w", err)
	}
	return nil
}

// Counts summarizes store contents for reporting.
type Counts struct {
	Accessions   int64
	Assigned     int64
	Fingerprints int64
}

// Stats returns row counts for the report command.
func (s *Store) Stats(ctx context.Context) (Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counts Counts
	queries := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(1) FROM accessions`, &counts.Accessions},
		{`SELECT COUNT(1) FROM accessions WHERE serial IS NOT NULL AND serial != ''`, &counts.Assigned},
		{`SELECT COUNT(1) FROM fingerprints`, &counts.Fingerprints},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return Counts{}, fmt.Errorf("store stats: %w", err)
		}
	}
	return counts, nil
}
