package repository

import (
	"crypto/rand"

	"gorm.io/gorm"

	"github.com/sapvaishnav/chatbot-admin/internal/model"
)

const (
	tenantKeyLength  = 16
	tenantKeyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateTenantKey returns a random alphanumeric key identifying a tenant
// towards the embedded chatbot widget.
func GenerateTenantKey() (string, error) {
	buf := make([]byte, tenantKeyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = tenantKeyCharset[int(b)%len(tenantKeyCharset)]
	}
	return string(buf), nil
}

// GetTenant returns the live tenant row. The tenants table is keyed by its
// own id rather than a tenant_id column, so it gets dedicated accessors
// instead of the generic helpers.
func GetTenant(db *gorm.DB, tenantID uint) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := db.Where("id = ? AND del_flg = 0", tenantID).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// CountActiveTenants returns the number of live tenants across the portal.
func CountActiveTenants(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&model.Tenant{}).Where("del_flg = 0").Count(&n).Error
	return n, err
}

// UpdateTenant applies a partial update to the live tenant row. Columns
// absent from fields keep their prior values.
func UpdateTenant(db *gorm.DB, tenantID uint, fields Fields) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	res := db.Model(&model.Tenant{}).
		Where("id = ? AND del_flg = 0", tenantID).
		Updates(map[string]any(fields))
	return res.RowsAffected, res.Error
}
