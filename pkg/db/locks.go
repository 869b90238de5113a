package db

import (
	"errors"

	"gorm.io/gorm"
)

// AdvisoryLock takes a Postgres transaction-scoped advisory lock for the
// given key. The lock releases automatically at commit or rollback. On
// non-Postgres dialects (the in-memory test database) this is a no-op: a
// single-writer engine already serializes the transactions the lock exists
// to order.
func AdvisoryLock(tx *gorm.DB, key string) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Error
}
