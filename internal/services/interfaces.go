package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"navtracker/internal/models"
	"navtracker/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password, fullName string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
	UpdateProfile(userID, fullName, email string) (*models.User, error)
	UpdateAvatar(userID, avatar string) (*models.User, error)
	DeleteUser(userID string) error
}

// DeleteReason explains why an asset group could not be deleted.
type DeleteReason string

const (
	DeleteReasonHasAssets DeleteReason = "has_assets"
	DeleteReasonNotFound  DeleteReason = "not_found"
)

// DeleteResult is the outcome of deleting an asset group.
type DeleteResult struct {
	Success bool         `json:"success"`
	Reason  DeleteReason `json:"reason,omitempty"`
}

// AssetGroupServicer defines the contract for asset group business logic.
type AssetGroupServicer interface {
	CreateAssetGroup(userID, name, description string, groupType models.AssetGroupType, icon, currency string) (*models.AssetGroup, error)
	GetUserAssetGroups(userID string) ([]models.AssetGroup, error)
	GetAssetGroupByID(userID, groupID string) (*models.AssetGroup, error)
	GetByIDWithAssets(userID, groupID string) (*models.AssetGroup, error)
	UpdateAssetGroup(userID, groupID string, name, description *string, groupType *models.AssetGroupType, icon, currency *string) (*models.AssetGroup, error)
	DeleteAssetGroup(userID, groupID string) (DeleteResult, error)
}

// CreateAssetInput holds the fields for a new asset. An empty Currency
// inherits the group's currency.
type CreateAssetInput struct {
	AssetGroupID  string
	Name          string
	Description   string
	CurrentValue  decimal.Decimal
	Quantity      decimal.Decimal
	Currency      string
	CryptoTokenID *string
}

// UpdateAssetInput holds optional asset changes; nil fields are left as is.
// A non-nil empty CryptoTokenID unlinks the asset from the price source.
type UpdateAssetInput struct {
	AssetGroupID  *string
	Name          *string
	Description   *string
	CurrentValue  *decimal.Decimal
	Quantity      *decimal.Decimal
	Currency      *string
	CryptoTokenID *string
}

// RefreshStatus is the result of refreshing one asset's price.
type RefreshStatus string

const (
	RefreshUpdated     RefreshStatus = "updated"
	RefreshUnchanged   RefreshStatus = "unchanged"
	RefreshUnavailable RefreshStatus = "unavailable"
)

// RefreshOutcome reports what a price refresh did to one asset.
type RefreshOutcome struct {
	AssetID  string          `json:"asset_id"`
	Status   RefreshStatus   `json:"status"`
	Price    decimal.Decimal `json:"price"`
	OldValue decimal.Decimal `json:"old_value"`
	NewValue decimal.Decimal `json:"new_value"`
}

// RefreshSummary counts the outcomes of refreshing all tracked assets.
type RefreshSummary struct {
	Updated   int              `json:"updated"`
	Unchanged int              `json:"unchanged"`
	Failed    int              `json:"failed"`
	Outcomes  []RefreshOutcome `json:"outcomes"`
}

// AssetServicer defines the contract for asset business logic.
type AssetServicer interface {
	CreateAsset(userID string, input CreateAssetInput) (*models.Asset, error)
	GetAllWithGroup(userID string) ([]models.Asset, error)
	GetUserAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	GetRecentAssets(userID string, limit int) ([]models.Asset, error)
	GetAssetByID(userID, assetID string) (*models.Asset, error)
	GetByIDWithHistory(userID, assetID string) (*models.Asset, error)
	UpdateAsset(userID, assetID string, input UpdateAssetInput) (*models.Asset, error)
	DeleteAsset(userID, assetID string) error
	RefreshPrice(ctx context.Context, userID, assetID string) (*RefreshOutcome, error)
	RefreshAllPrices(ctx context.Context, userID string) (*RefreshSummary, error)
}

// PriceHistoryServicer defines the contract for the append-only price ledger.
type PriceHistoryServicer interface {
	Record(tx *gorm.DB, assetID string, value, quantity decimal.Decimal, note models.PriceHistoryNote) (*models.PriceHistory, error)
	HistoryFor(userID, assetID string) ([]models.PriceHistory, error)
	ChartSeries(userID, assetID string) ([]models.PriceHistory, error)
}

// DebtInput holds the fields of a debt.
type DebtInput struct {
	Name         string
	Description  string
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	Currency     string
	DueDate      *time.Time
	Status       models.DebtStatus
}

// UpdateDebtInput holds optional debt changes; nil fields are left as is.
type UpdateDebtInput struct {
	Name         *string
	Description  *string
	Amount       *decimal.Decimal
	InterestRate *decimal.Decimal
	Currency     *string
	DueDate      *time.Time
	ClearDueDate bool
	Status       *models.DebtStatus
}

// DebtServicer defines the contract for debt business logic.
type DebtServicer interface {
	CreateDebt(userID string, input DebtInput) (*models.Debt, error)
	GetUserDebts(userID string, status *models.DebtStatus) ([]models.Debt, error)
	GetRecentDebts(userID string, limit int) ([]models.Debt, error)
	GetDebtByID(userID, debtID string) (*models.Debt, error)
	UpdateDebt(userID, debtID string, input UpdateDebtInput) (*models.Debt, error)
	DeleteDebt(userID, debtID string) error
}

// GroupTotal is one asset group's aggregated value in the base currency.
type GroupTotal struct {
	GroupID    string                `json:"group_id"`
	Name       string                `json:"name"`
	Type       models.AssetGroupType `json:"type"`
	Icon       string                `json:"icon"`
	Currency   string                `json:"currency"`
	TotalValue decimal.Decimal       `json:"total_value"`
	AssetCount int                   `json:"asset_count"`
}

// AggregatorServicer computes a user's normalized totals on demand.
type AggregatorServicer interface {
	TotalAssetsFor(userID string) (decimal.Decimal, error)
	TotalActiveDebtFor(userID string) (decimal.Decimal, error)
	GroupBreakdown(userID string) ([]GroupTotal, error)
	CountAssets(userID string) (int64, error)
	CountActiveDebts(userID string) (int64, error)
}

// Breakdown is the detail stored alongside a NAV figure.
type Breakdown struct {
	AssetGroups []GroupTotal `json:"asset_groups"`
	AssetCount  int64        `json:"asset_count"`
	DebtCount   int64        `json:"debt_count"`
}

// NAV is a user's current net asset value in the base currency.
type NAV struct {
	TotalAssets   decimal.Decimal `json:"total_assets"`
	TotalDebts    decimal.Decimal `json:"total_debts"`
	NetAssetValue decimal.Decimal `json:"net_asset_value"`
	Currency      string          `json:"currency"`
	Breakdown     Breakdown       `json:"breakdown"`
}

// NAVServicer computes NAV and manages immutable NAV snapshots.
type NAVServicer interface {
	CalculateCurrentNAV(userID string) (*NAV, error)
	CreateSnapshot(userID string) (*models.NAVSnapshot, error)
	GetSnapshots(userID string, limit int) ([]models.NAVSnapshot, error)
	GetSnapshotByID(userID, snapshotID string) (*models.NAVSnapshot, error)
	GetSnapshotsByDateRange(userID string, start, end time.Time) ([]models.NAVSnapshot, error)
	GetMonthlySnapshots(userID string, year int) ([]models.NAVSnapshot, error)
	GetYearlySnapshots(userID string, years int) ([]models.NAVSnapshot, error)
}

// PriceSource fetches current USD prices for external token ids. Tokens
// without a price are omitted; failures are never returned as errors.
type PriceSource interface {
	GetPrice(ctx context.Context, tokenID string) (decimal.Decimal, bool)
	GetPrices(ctx context.Context, tokenIDs []string) map[string]decimal.Decimal
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	ListRecent(userID string, limit int) ([]models.AuditLog, error)
}
