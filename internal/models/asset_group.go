package models

// AssetGroupType is the category tag of an asset group.
type AssetGroupType string

const (
	AssetGroupTypeRealEstate  AssetGroupType = "real_estate"
	AssetGroupTypeSavings     AssetGroupType = "savings"
	AssetGroupTypeStocks      AssetGroupType = "stocks"
	AssetGroupTypeCrypto      AssetGroupType = "crypto"
	AssetGroupTypeGold        AssetGroupType = "gold"
	AssetGroupTypeVehicle     AssetGroupType = "vehicle"
	AssetGroupTypeJewelry     AssetGroupType = "jewelry"
	AssetGroupTypeArt         AssetGroupType = "art"
	AssetGroupTypeElectronics AssetGroupType = "electronics"
	AssetGroupTypeOther       AssetGroupType = "other"
)

// AssetGroupTypes lists every valid group type in display order.
var AssetGroupTypes = []AssetGroupType{
	AssetGroupTypeRealEstate,
	AssetGroupTypeSavings,
	AssetGroupTypeStocks,
	AssetGroupTypeCrypto,
	AssetGroupTypeGold,
	AssetGroupTypeVehicle,
	AssetGroupTypeJewelry,
	AssetGroupTypeArt,
	AssetGroupTypeElectronics,
	AssetGroupTypeOther,
}

// IsValid reports whether t is a known group type.
func (t AssetGroupType) IsValid() bool {
	for _, v := range AssetGroupTypes {
		if v == t {
			return true
		}
	}
	return false
}

// DefaultAssetGroupIcon is used when a group is created without an icon.
const DefaultAssetGroupIcon = "other.svg"

// AssetGroup buckets a user's assets. A group that still owns assets cannot
// be deleted.
type AssetGroup struct {
	Base
	UserID      string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Type        AssetGroupType `gorm:"size:50;not null" json:"type"`
	Icon        string         `gorm:"size:255;not null;default:'other.svg'" json:"icon"`
	Currency    string         `gorm:"size:3;not null;default:'VND'" json:"currency"`

	Assets []Asset `gorm:"foreignKey:AssetGroupID;constraint:OnDelete:RESTRICT" json:"assets,omitempty"`
}
