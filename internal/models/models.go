// Package models defines the GORM models persisted by navtracker.
package models

// All returns every model in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&AssetGroup{},
		&Asset{},
		&PriceHistory{},
		&Debt{},
		&NAVSnapshot{},
		&AuditLog{},
	}
}
