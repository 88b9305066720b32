package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"navtracker/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// Dec parses a decimal literal, panicking on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestUser creates a user with a hashed password and unique username and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", n), fmt.Sprintf("user%d@test.com", n))
}

// CreateTestUserWithUsername creates a user with the given username and email.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		FullName: "Test User",
		Avatar:   models.DefaultAvatar,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAssetGroup creates a group of the given type in VND.
func CreateTestAssetGroup(t *testing.T, db *gorm.DB, userID string, groupType models.AssetGroupType) *models.AssetGroup {
	t.Helper()

	group := &models.AssetGroup{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Group %d", nextID()),
		Type:     groupType,
		Icon:     models.DefaultAssetGroupIcon,
		Currency: "VND",
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test asset group: %v", err)
	}
	return group
}

// CreateTestAsset creates an asset directly, without a price history entry.
func CreateTestAsset(t *testing.T, db *gorm.DB, userID, groupID, value, currency string) *models.Asset {
	t.Helper()
	return CreateTestTrackedAsset(t, db, userID, groupID, value, "1", currency, "")
}

// CreateTestTrackedAsset creates an asset linked to a price source token.
// An empty tokenID leaves the asset untracked.
func CreateTestTrackedAsset(t *testing.T, db *gorm.DB, userID, groupID, value, quantity, currency, tokenID string) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		UserID:       userID,
		AssetGroupID: groupID,
		Name:         fmt.Sprintf("Test Asset %d", nextID()),
		CurrentValue: Dec(value),
		Quantity:     Dec(quantity),
		Currency:     currency,
	}
	if tokenID != "" {
		asset.CryptoTokenID = &tokenID
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestDebt creates a debt with the given amount, currency and status.
func CreateTestDebt(t *testing.T, db *gorm.DB, userID, amount, currency string, status models.DebtStatus) *models.Debt {
	t.Helper()

	debt := &models.Debt{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Debt %d", nextID()),
		Amount:   Dec(amount),
		Currency: currency,
		Status:   status,
	}
	if err := db.Create(debt).Error; err != nil {
		t.Fatalf("failed to create test debt: %v", err)
	}
	return debt
}

// CreateTestSnapshot inserts a snapshot stamped at the given time.
func CreateTestSnapshot(t *testing.T, db *gorm.DB, userID string, at time.Time, nav string) *models.NAVSnapshot {
	t.Helper()

	snapshot := &models.NAVSnapshot{
		UserID:        userID,
		TotalAssets:   Dec(nav),
		TotalDebts:    decimal.Zero,
		NetAssetValue: Dec(nav),
		Breakdown:     `{"asset_groups":[],"asset_count":0,"debt_count":0}`,
		CreatedAt:     at.UTC(),
	}
	if err := db.Create(snapshot).Error; err != nil {
		t.Fatalf("failed to create test snapshot: %v", err)
	}
	return snapshot
}
