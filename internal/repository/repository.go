// Package repository implements the tenant-scoped soft-delete data access
// used by every business entity in the portal. All entry points take the
// tenant id as a plain uint so a caller cannot forget the isolation
// predicate; rows with del_flg = 1 are invisible to every read and every
// uniqueness check.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

// Fields carries the sparse column set for partial updates and natural-key
// lookups. Only keys present in the map reach the SQL statement.
type Fields map[string]any

// scoped limits a query to the live rows of one tenant.
func scoped(db *gorm.DB, tenantID uint) *gorm.DB {
	return db.Where("tenant_id = ? AND del_flg = 0", tenantID)
}

// FindActive returns the single live row matching the natural key within the
// tenant. A nil key finds the tenant singleton. Returns
// gorm.ErrRecordNotFound when no live row matches.
func FindActive[T any](db *gorm.DB, tenantID uint, key Fields) (*T, error) {
	var out T
	q := scoped(db, tenantID)
	if len(key) > 0 {
		q = q.Where(map[string]any(key))
	}
	if err := q.First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ListActive returns all live rows for the tenant, newest first.
func ListActive[T any](db *gorm.DB, tenantID uint) ([]T, error) {
	var out []T
	err := scoped(db, tenantID).Order("created_at desc").Find(&out).Error
	return out, err
}

// Upsert applies the sparse field set to the live row matching the natural
// key, or inserts fresh when no live row exists. The returned bool reports
// whether a new row was created. Singleton entities pass a nil key so the
// tenant id alone selects the row.
func Upsert[T any](db *gorm.DB, tenantID uint, key Fields, apply Fields, fresh *T) (*T, bool, error) {
	_, err := FindActive[T](db, tenantID, key)
	switch {
	case err == nil:
		if len(apply) > 0 {
			q := scoped(db.Model(new(T)), tenantID)
			if len(key) > 0 {
				q = q.Where(map[string]any(key))
			}
			if err := q.Updates(map[string]any(apply)).Error; err != nil {
				return nil, false, err
			}
		}
		updated, err := FindActive[T](db, tenantID, key)
		return updated, false, err
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(fresh).Error; err != nil {
			return nil, false, err
		}
		return fresh, true, nil
	default:
		return nil, false, err
	}
}

// UpdateFields applies a partial update to live rows matching key within the
// tenant. Columns absent from fields are untouched; updated_at is always
// bumped. Zero rows affected is not an error; callers that care inspect the
// returned count.
func UpdateFields[T any](db *gorm.DB, tenantID uint, key Fields, fields Fields) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	q := scoped(db.Model(new(T)), tenantID)
	if len(key) > 0 {
		q = q.Where(map[string]any(key))
	}
	res := q.Updates(map[string]any(fields))
	return res.RowsAffected, res.Error
}

// SoftDelete marks the row logically absent. Scoped by both id and tenant so
// a colliding id from another tenant is never touched. Deleting an already
// deleted or missing row is a no-op reported as success.
func SoftDelete[T any](db *gorm.DB, tenantID uint, id uint) error {
	return scoped(db.Model(new(T)), tenantID).
		Where("id = ?", id).
		Update("del_flg", 1).Error
}

// CountActive returns the number of live rows for the tenant.
func CountActive[T any](db *gorm.DB, tenantID uint) (int64, error) {
	var n int64
	err := scoped(db.Model(new(T)), tenantID).Count(&n).Error
	return n, err
}

// IsDuplicate reports whether err is a unique-constraint violation, the
// outcome of inserting a natural key that already has a live row.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsNotFound reports whether err means no live row matched.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
