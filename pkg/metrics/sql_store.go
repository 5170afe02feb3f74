package metrics

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/zpam/spamnb/pkg/config"
)

var schemas = map[string]string{
	"sqlite3": `
		CREATE TABLE IF NOT EXISTS evaluation_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			train_num INTEGER NOT NULL,
			test_num INTEGER NOT NULL,
			acc REAL NOT NULL,
			precision_rate REAL NOT NULL,
			recall_rate REAL NOT NULL,
			tp INTEGER NOT NULL,
			fp INTEGER NOT NULL,
			fn INTEGER NOT NULL,
			tn INTEGER NOT NULL,
			created_at REAL NOT NULL
		)`,
	"mysql": `
		CREATE TABLE IF NOT EXISTS evaluation_records (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			run_id VARCHAR(36) NOT NULL,
			train_num INT NOT NULL,
			test_num INT NOT NULL,
			acc DOUBLE NOT NULL,
			precision_rate DOUBLE NOT NULL,
			recall_rate DOUBLE NOT NULL,
			tp INT NOT NULL,
			fp INT NOT NULL,
			fn INT NOT NULL,
			tn INT NOT NULL,
			created_at DOUBLE NOT NULL
		)`,
	"postgres": `
		CREATE TABLE IF NOT EXISTS evaluation_records (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			train_num INTEGER NOT NULL,
			test_num INTEGER NOT NULL,
			acc DOUBLE PRECISION NOT NULL,
			precision_rate DOUBLE PRECISION NOT NULL,
			recall_rate DOUBLE PRECISION NOT NULL,
			tp INTEGER NOT NULL,
			fp INTEGER NOT NULL,
			fn INTEGER NOT NULL,
			tn INTEGER NOT NULL,
			created_at DOUBLE PRECISION NOT NULL
		)`,
}

const insertRecord = `
	INSERT INTO evaluation_records
		(run_id, train_num, test_num, acc, precision_rate, recall_rate, tp, fp, fn, tn, created_at)
	VALUES
		(:run_id, :train_num, :test_num, :acc, :precision_rate, :recall_rate, :tp, :fp, :fn, :tn, :created_at)`

const selectRecords = `
	SELECT run_id, train_num, test_num, acc, precision_rate, recall_rate, tp, fp, fn, tn, created_at
	FROM evaluation_records
	ORDER BY id`

// SQLStore keeps records in an evaluation_records table
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore opens the database and creates the table if needed
func NewSQLStore(ctx context.Context, cfg config.SQLConfig) (*SQLStore, error) {
	schema, ok := schemas[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver: %s", cfg.Driver)
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Append inserts r
func (s *SQLStore) Append(ctx context.Context, r Record) error {
	if _, err := s.db.NamedExecContext(ctx, insertRecord, r); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Load reads every record in insertion order
func (s *SQLStore) Load(ctx context.Context) (Collection, error) {
	var records []Record
	if err := s.db.SelectContext(ctx, &records, selectRecords); err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	c := Collection{}
	for _, r := range records {
		c.Add(r)
	}
	return c, nil
}

// Close closes the database
func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLStore)(nil)
