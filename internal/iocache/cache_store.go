package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// responseTable is the name of the table holding cached responses.
const responseTable = "osscompass_response_cache"

// CacheStoreImpl handles durable storage operations using various database backends.
type CacheStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.CacheStore = &CacheStoreImpl{} // Compile-time check

// openDB opens and pings the database for a SQL backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite cache at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL cache: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// host=localhost port=5432 user=postgres password=secret dbname=postgres
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL cache: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported SQL cache backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// NewCacheStore initializes and returns a new CacheStore based on the backend type.
// SQL backends are migrated to the latest schema before use.
func NewCacheStore(backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	switch backend {
	case schema.NoneBackend:
		return &CacheStoreImpl{backend: backend, connStr: connStr}, nil
	case schema.MemoryBackend:
		return NewMemoryStore(), nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, memory, or none", backend)
	}

	if _, err := MigrateCache(backend, connStr, -1); err != nil {
		return nil, fmt.Errorf("failed to prepare cache schema: %w", err)
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	return &CacheStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// disabled reports whether this store is a no-op.
func (ps *CacheStoreImpl) disabled() bool {
	return ps.backend == schema.NoneBackend || ps.db == nil
}

// rebind rewrites ? placeholders into the backend's parameter style.
func (ps *CacheStoreImpl) rebind(query string) string {
	if ps.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// prefixClause matches keys that start with prefix without LIKE escaping.
func prefixClause(prefix string) string {
	return fmt.Sprintf("SUBSTR(cache_key, 1, %d) = ?", len(prefix))
}

// Get retrieves an entry by key from the store.
func (ps *CacheStoreImpl) Get(key string) (contract.CacheEntry, error) {
	entry := contract.CacheEntry{Key: key}
	if ps.disabled() {
		return entry, contract.ErrCacheEntryNotFound
	}

	query := ps.rebind(`SELECT cache_value, cache_version, cache_created, cache_ttl FROM ` + responseTable + ` WHERE cache_key = ?`)
	row := ps.db.QueryRow(query, key)
	if err := row.Scan(&entry.Value, &entry.Version, &entry.CreatedAt, &entry.TTL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry, contract.ErrCacheEntryNotFound
		}
		return entry, err
	}
	return entry, nil
}

// Set inserts or replaces an entry in the store.
func (ps *CacheStoreImpl) Set(entry contract.CacheEntry) error {
	if ps.disabled() {
		return nil
	}
	_, err := ps.db.Exec(ps.getUpsertQuery(), entry.Key, entry.Value, entry.Version, entry.CreatedAt, entry.TTL)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ps *CacheStoreImpl) getUpsertQuery() string {
	switch ps.backend {
	case schema.MySQLBackend:
		return `INSERT INTO ` + responseTable + ` (cache_key, cache_value, cache_version, cache_created, cache_ttl) VALUES (?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_created = new.cache_created, cache_ttl = new.cache_ttl`

	case schema.PostgreSQLBackend:
		return `INSERT INTO ` + responseTable + ` (cache_key, cache_value, cache_version, cache_created, cache_ttl) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_created = EXCLUDED.cache_created, cache_ttl = EXCLUDED.cache_ttl`

	default: // SQLite
		return `INSERT OR REPLACE INTO ` + responseTable + ` (cache_key, cache_value, cache_version, cache_created, cache_ttl) VALUES (?, ?, ?, ?, ?)`
	}
}

// Delete removes a key from the store.
func (ps *CacheStoreImpl) Delete(key string) error {
	if ps.disabled() {
		return nil
	}
	_, err := ps.db.Exec(ps.rebind(`DELETE FROM `+responseTable+` WHERE cache_key = ?`), key)
	return err
}

// Count returns the number of entries under prefix.
func (ps *CacheStoreImpl) Count(prefix string) (int, error) {
	if ps.disabled() {
		return 0, nil
	}
	var n int
	query := ps.rebind(`SELECT COUNT(*) FROM ` + responseTable + ` WHERE ` + prefixClause(prefix))
	if err := ps.db.QueryRow(query, prefix).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Oldest returns up to n keys under prefix, oldest creation first.
func (ps *CacheStoreImpl) Oldest(prefix string, n int) ([]string, error) {
	if ps.disabled() || n <= 0 {
		return nil, nil
	}
	query := ps.rebind(fmt.Sprintf(`SELECT cache_key FROM %s WHERE %s ORDER BY cache_created ASC, cache_key ASC LIMIT %d`,
		responseTable, prefixClause(prefix), n))
	rows, err := ps.db.Query(query, prefix)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// DeletePrefix removes every entry under prefix.
func (ps *CacheStoreImpl) DeletePrefix(prefix string) (int64, error) {
	if ps.disabled() {
		return 0, nil
	}
	res, err := ps.db.Exec(ps.rebind(`DELETE FROM `+responseTable+` WHERE `+prefixClause(prefix)), prefix)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteExpired removes every entry under prefix whose TTL elapsed before now.
func (ps *CacheStoreImpl) DeleteExpired(prefix string, now int64) (int64, error) {
	if ps.disabled() {
		return 0, nil
	}
	query := ps.rebind(`DELETE FROM ` + responseTable + ` WHERE ` + prefixClause(prefix) + ` AND cache_created + cache_ttl < ?`)
	res, err := ps.db.Exec(query, prefix, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close closes the underlying DB connection.
func (ps *CacheStoreImpl) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

// GetStatus returns status information about the cache store.
func (ps *CacheStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(ps.backend),
		Connected: ps.db != nil,
	}
	if ps.disabled() {
		return status, nil
	}

	row := ps.db.QueryRow(`SELECT COUNT(*) FROM ` + responseTable)
	if err := row.Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	expiredQuery := ps.rebind(`SELECT COUNT(*) FROM ` + responseTable + ` WHERE cache_created + cache_ttl < ?`)
	if err := ps.db.QueryRow(expiredQuery, time.Now().UnixMilli()).Scan(&status.ExpiredEntries); err != nil {
		return status, fmt.Errorf("failed to get expired entries: %w", err)
	}

	var lastMs, oldestMs int64
	row = ps.db.QueryRow(`SELECT MAX(cache_created), MIN(cache_created) FROM ` + responseTable)
	if err := row.Scan(&lastMs, &oldestMs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.UnixMilli(lastMs)
	status.OldestEntryTime = time.UnixMilli(oldestMs)

	// Rough estimate used whenever a backend-specific size query fails
	estimate := int64(status.TotalEntries) * 1000

	switch ps.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := ps.db.QueryRow(sizeQuery).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}
	case schema.MySQLBackend:
		status.TableSizeBytes = estimate
		cfg, err := mysql.ParseDSN(ps.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := ps.db.QueryRow(sizeQuery, cfg.DBName, responseTable).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = estimate
		}
	case schema.PostgreSQLBackend:
		if err := ps.db.QueryRow("SELECT pg_total_relation_size($1)", responseTable).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = estimate
		}
	}

	return status, nil
}
