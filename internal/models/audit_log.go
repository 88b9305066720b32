package models

// AuditLog is one recorded mutation of a user-owned record. Changes holds a
// JSON object of the notable fields, or is empty.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `gorm:"type:uuid" json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `gorm:"type:text" json:"changes,omitempty"`
}

// Origin names where the mutation came from: the client address, or "cli"
// for entries written without one.
func (a AuditLog) Origin() string {
	if a.IPAddress == "" {
		return "cli"
	}
	return a.IPAddress
}
