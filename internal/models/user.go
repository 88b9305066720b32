package models

// DefaultAvatar is assigned to users who have not picked an avatar.
const DefaultAvatar = "default-1.svg"

// Avatars lists the selectable avatar references.
var Avatars = []string{
	"default-1.svg",
	"default-2.svg",
	"default-3.svg",
	"default-4.svg",
	"default-5.svg",
	"default-6.svg",
}

// IsValidAvatar reports whether ref is one of the selectable avatars.
func IsValidAvatar(ref string) bool {
	for _, a := range Avatars {
		if a == ref {
			return true
		}
	}
	return false
}

// User represents the user model in the database
type User struct {
	Base
	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	FullName string `gorm:"size:100" json:"full_name"`
	Avatar   string `gorm:"size:255;not null;default:'default-1.svg'" json:"avatar"`

	AssetGroups []AssetGroup  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"asset_groups,omitempty"`
	Debts       []Debt        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"debts,omitempty"`
	Snapshots   []NAVSnapshot `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
