package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// memoryDSN opens a private in-memory database. Each connection gets its own
// database, so the pool must never grow past one connection.
const memoryDSN = "file::memory:?_foreign_keys=on"

// Store is the in-memory relational store. All state lives on the single
// pooled connection; Export and Import move it in and out as a byte blob.
type Store struct {
	DB  *gorm.DB
	log *zap.Logger
}

// NewStore opens an empty store without schema.
func NewStore(log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := gorm.Open(sqlite.Open(memoryDSN), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		NowFunc:                func() time.Time { return time.Now().UTC() },
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open in-memory store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	s := &Store{DB: db, log: log}
	if err := s.enableForeignKeys(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) enableForeignKeys() error {
	if err := s.DB.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	return nil
}

// Migrate applies the schema. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema() {
		if err := s.DB.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Export serializes the whole main database.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.withConn(ctx, func(c *sqlite3.SQLiteConn) error {
		var err error
		data, err = c.Serialize("main")
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("serialize store: %w", err)
	}
	return data, nil
}

// Import replaces the store content with a blob produced by Export.
//
// The blob is deserialized into a scratch connection first and then copied
// with the online backup API, so the store keeps a growable database.
func (s *Store) Import(ctx context.Context, data []byte) error {
	scratch, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return fmt.Errorf("open scratch database: %w", err)
	}
	defer scratch.Close()

	conn, err := scratch.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open scratch connection: %w", err)
	}
	defer conn.Close()

	err = conn.Raw(func(driverConn any) error {
		src, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		if err := src.Deserialize(data, "main"); err != nil {
			return err
		}
		return s.withConn(ctx, func(dst *sqlite3.SQLiteConn) error {
			return copyDatabase(dst, src)
		})
	})
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	if err := s.enableForeignKeys(); err != nil {
		return err
	}

	var tables int64
	if err := s.DB.WithContext(ctx).Raw("SELECT count(*) FROM sqlite_master").Scan(&tables).Error; err != nil {
		return fmt.Errorf("read restored schema: %w", err)
	}
	s.log.Debug("store restored", zap.Int("bytes", len(data)), zap.Int64("schema_objects", tables))
	return nil
}

// Close releases the connection and with it every row.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) withConn(ctx context.Context, fn func(*sqlite3.SQLiteConn) error) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.Raw(func(driverConn any) error {
		c, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		return fn(c)
	})
}

func copyDatabase(dst, src *sqlite3.SQLiteConn) error {
	backup, err := dst.Backup("main", src, "main")
	if err != nil {
		return err
	}
	if _, err := backup.Step(-1); err != nil {
		backup.Finish()
		return err
	}
	return backup.Finish()
}
