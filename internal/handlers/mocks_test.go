package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"navtracker/internal/config"
	"navtracker/internal/middleware"
	"navtracker/internal/models"
	"navtracker/internal/pagination"
	"navtracker/internal/services"
	"navtracker/internal/validator"
)

const (
	testUserID  = "0190a1b2-0000-7000-8000-000000000001"
	testOtherID = "0190a1b2-0000-7000-8000-0000000000ff"
)

// --- mock services ---

type mockUserService struct {
	createUserFn     func(username, email, password, fullName string) (*models.User, error)
	getUserByIDFn    func(id string) (*models.User, error)
	attemptLoginFn   func(username, password string) (*models.User, error)
	updateProfileFn  func(userID, fullName, email string) (*models.User, error)
	updateAvatarFn   func(userID, avatar string) (*models.User, error)
	deleteUserFn     func(userID string) error
	getByUsernameFn  func(username string) (*models.User, error)
	verifyPasswordFn func(user *models.User, password string) bool
}

func (m *mockUserService) CreateUser(username, email, password, fullName string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(username, email, password, fullName)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByUsername(username string) (*models.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(username)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) AttemptLogin(username, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(username, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) UpdateProfile(userID, fullName, email string) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(userID, fullName, email)
	}
	return &models.User{Base: models.Base{ID: userID}, FullName: fullName, Email: email}, nil
}

func (m *mockUserService) UpdateAvatar(userID, avatar string) (*models.User, error) {
	if m.updateAvatarFn != nil {
		return m.updateAvatarFn(userID, avatar)
	}
	return &models.User{Base: models.Base{ID: userID}, Avatar: avatar}, nil
}

func (m *mockUserService) DeleteUser(userID string) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(userID)
	}
	return nil
}

type mockAssetGroupService struct {
	createFn      func(userID, name, description string, groupType models.AssetGroupType, icon, currency string) (*models.AssetGroup, error)
	listFn        func(userID string) ([]models.AssetGroup, error)
	getFn         func(userID, groupID string) (*models.AssetGroup, error)
	getWithAssets func(userID, groupID string) (*models.AssetGroup, error)
	updateFn      func(userID, groupID string, name, description *string, groupType *models.AssetGroupType, icon, currency *string) (*models.AssetGroup, error)
	deleteFn      func(userID, groupID string) (services.DeleteResult, error)
}

func (m *mockAssetGroupService) CreateAssetGroup(userID, name, description string, groupType models.AssetGroupType, icon, currency string) (*models.AssetGroup, error) {
	if m.createFn != nil {
		return m.createFn(userID, name, description, groupType, icon, currency)
	}
	return &models.AssetGroup{}, nil
}

func (m *mockAssetGroupService) GetUserAssetGroups(userID string) ([]models.AssetGroup, error) {
	if m.listFn != nil {
		return m.listFn(userID)
	}
	return []models.AssetGroup{}, nil
}

func (m *mockAssetGroupService) GetAssetGroupByID(userID, groupID string) (*models.AssetGroup, error) {
	if m.getFn != nil {
		return m.getFn(userID, groupID)
	}
	return &models.AssetGroup{}, nil
}

func (m *mockAssetGroupService) GetByIDWithAssets(userID, groupID string) (*models.AssetGroup, error) {
	if m.getWithAssets != nil {
		return m.getWithAssets(userID, groupID)
	}
	return &models.AssetGroup{}, nil
}

func (m *mockAssetGroupService) UpdateAssetGroup(userID, groupID string, name, description *string, groupType *models.AssetGroupType, icon, currency *string) (*models.AssetGroup, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, groupID, name, description, groupType, icon, currency)
	}
	return &models.AssetGroup{}, nil
}

func (m *mockAssetGroupService) DeleteAssetGroup(userID, groupID string) (services.DeleteResult, error) {
	if m.deleteFn != nil {
		return m.deleteFn(userID, groupID)
	}
	return services.DeleteResult{Success: true}, nil
}

type mockAssetService struct {
	createFn        func(userID string, input services.CreateAssetInput) (*models.Asset, error)
	listFn          func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	recentFn        func(userID string, limit int) ([]models.Asset, error)
	getFn           func(userID, assetID string) (*models.Asset, error)
	getWithHistory  func(userID, assetID string) (*models.Asset, error)
	updateFn        func(userID, assetID string, input services.UpdateAssetInput) (*models.Asset, error)
	deleteFn        func(userID, assetID string) error
	refreshFn       func(ctx context.Context, userID, assetID string) (*services.RefreshOutcome, error)
	refreshAllFn    func(ctx context.Context, userID string) (*services.RefreshSummary, error)
	allWithGroupsFn func(userID string) ([]models.Asset, error)
}

func (m *mockAssetService) CreateAsset(userID string, input services.CreateAssetInput) (*models.Asset, error) {
	if m.createFn != nil {
		return m.createFn(userID, input)
	}
	return &models.Asset{}, nil
}

func (m *mockAssetService) GetAllWithGroup(userID string) ([]models.Asset, error) {
	if m.allWithGroupsFn != nil {
		return m.allWithGroupsFn(userID)
	}
	return []models.Asset{}, nil
}

func (m *mockAssetService) GetUserAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	if m.listFn != nil {
		return m.listFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Asset{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockAssetService) GetRecentAssets(userID string, limit int) ([]models.Asset, error) {
	if m.recentFn != nil {
		return m.recentFn(userID, limit)
	}
	return []models.Asset{}, nil
}

func (m *mockAssetService) GetAssetByID(userID, assetID string) (*models.Asset, error) {
	if m.getFn != nil {
		return m.getFn(userID, assetID)
	}
	return &models.Asset{}, nil
}

func (m *mockAssetService) GetByIDWithHistory(userID, assetID string) (*models.Asset, error) {
	if m.getWithHistory != nil {
		return m.getWithHistory(userID, assetID)
	}
	return &models.Asset{}, nil
}

func (m *mockAssetService) UpdateAsset(userID, assetID string, input services.UpdateAssetInput) (*models.Asset, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, assetID, input)
	}
	return &models.Asset{}, nil
}

func (m *mockAssetService) DeleteAsset(userID, assetID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, assetID)
	}
	return nil
}

func (m *mockAssetService) RefreshPrice(ctx context.Context, userID, assetID string) (*services.RefreshOutcome, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, userID, assetID)
	}
	return &services.RefreshOutcome{AssetID: assetID, Status: services.RefreshUnchanged}, nil
}

func (m *mockAssetService) RefreshAllPrices(ctx context.Context, userID string) (*services.RefreshSummary, error) {
	if m.refreshAllFn != nil {
		return m.refreshAllFn(ctx, userID)
	}
	return &services.RefreshSummary{Outcomes: []services.RefreshOutcome{}}, nil
}

type mockPriceHistoryService struct {
	historyFn func(userID, assetID string) ([]models.PriceHistory, error)
	seriesFn  func(userID, assetID string) ([]models.PriceHistory, error)
}

func (m *mockPriceHistoryService) Record(_ *gorm.DB, _ string, _, _ decimal.Decimal, _ models.PriceHistoryNote) (*models.PriceHistory, error) {
	return &models.PriceHistory{}, nil
}

func (m *mockPriceHistoryService) HistoryFor(userID, assetID string) ([]models.PriceHistory, error) {
	if m.historyFn != nil {
		return m.historyFn(userID, assetID)
	}
	return []models.PriceHistory{}, nil
}

func (m *mockPriceHistoryService) ChartSeries(userID, assetID string) ([]models.PriceHistory, error) {
	if m.seriesFn != nil {
		return m.seriesFn(userID, assetID)
	}
	return []models.PriceHistory{}, nil
}

type mockDebtService struct {
	createFn func(userID string, input services.DebtInput) (*models.Debt, error)
	listFn   func(userID string, status *models.DebtStatus) ([]models.Debt, error)
	recentFn func(userID string, limit int) ([]models.Debt, error)
	getFn    func(userID, debtID string) (*models.Debt, error)
	updateFn func(userID, debtID string, input services.UpdateDebtInput) (*models.Debt, error)
	deleteFn func(userID, debtID string) error
}

func (m *mockDebtService) CreateDebt(userID string, input services.DebtInput) (*models.Debt, error) {
	if m.createFn != nil {
		return m.createFn(userID, input)
	}
	return &models.Debt{}, nil
}

func (m *mockDebtService) GetUserDebts(userID string, status *models.DebtStatus) ([]models.Debt, error) {
	if m.listFn != nil {
		return m.listFn(userID, status)
	}
	return []models.Debt{}, nil
}

func (m *mockDebtService) GetRecentDebts(userID string, limit int) ([]models.Debt, error) {
	if m.recentFn != nil {
		return m.recentFn(userID, limit)
	}
	return []models.Debt{}, nil
}

func (m *mockDebtService) GetDebtByID(userID, debtID string) (*models.Debt, error) {
	if m.getFn != nil {
		return m.getFn(userID, debtID)
	}
	return &models.Debt{}, nil
}

func (m *mockDebtService) UpdateDebt(userID, debtID string, input services.UpdateDebtInput) (*models.Debt, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, debtID, input)
	}
	return &models.Debt{}, nil
}

func (m *mockDebtService) DeleteDebt(userID, debtID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, debtID)
	}
	return nil
}

type mockNAVService struct {
	currentFn func(userID string) (*services.NAV, error)
	createFn  func(userID string) (*models.NAVSnapshot, error)
	listFn    func(userID string, limit int) ([]models.NAVSnapshot, error)
	getFn     func(userID, snapshotID string) (*models.NAVSnapshot, error)
	rangeFn   func(userID string, start, end time.Time) ([]models.NAVSnapshot, error)
	monthlyFn func(userID string, year int) ([]models.NAVSnapshot, error)
	yearlyFn  func(userID string, years int) ([]models.NAVSnapshot, error)
}

func (m *mockNAVService) CalculateCurrentNAV(userID string) (*services.NAV, error) {
	if m.currentFn != nil {
		return m.currentFn(userID)
	}
	return &services.NAV{Currency: "VND"}, nil
}

func (m *mockNAVService) CreateSnapshot(userID string) (*models.NAVSnapshot, error) {
	if m.createFn != nil {
		return m.createFn(userID)
	}
	return &models.NAVSnapshot{}, nil
}

func (m *mockNAVService) GetSnapshots(userID string, limit int) ([]models.NAVSnapshot, error) {
	if m.listFn != nil {
		return m.listFn(userID, limit)
	}
	return []models.NAVSnapshot{}, nil
}

func (m *mockNAVService) GetSnapshotByID(userID, snapshotID string) (*models.NAVSnapshot, error) {
	if m.getFn != nil {
		return m.getFn(userID, snapshotID)
	}
	return &models.NAVSnapshot{}, nil
}

func (m *mockNAVService) GetSnapshotsByDateRange(userID string, start, end time.Time) ([]models.NAVSnapshot, error) {
	if m.rangeFn != nil {
		return m.rangeFn(userID, start, end)
	}
	return []models.NAVSnapshot{}, nil
}

func (m *mockNAVService) GetMonthlySnapshots(userID string, year int) ([]models.NAVSnapshot, error) {
	if m.monthlyFn != nil {
		return m.monthlyFn(userID, year)
	}
	return []models.NAVSnapshot{}, nil
}

func (m *mockNAVService) GetYearlySnapshots(userID string, years int) ([]models.NAVSnapshot, error) {
	if m.yearlyFn != nil {
		return m.yearlyFn(userID, years)
	}
	return []models.NAVSnapshot{}, nil
}

// mockAuditService records the actions it was asked to log.
type mockAuditService struct {
	actions []string
}

func (m *mockAuditService) Log(_, action, resourceType, _, _ string, _ map[string]interface{}) {
	m.actions = append(m.actions, action+":"+resourceType)
}

func (m *mockAuditService) ListRecent(_ string, _ int) ([]models.AuditLog, error) {
	return nil, nil
}

// verify interface compliance
var (
	_ services.UserServicer         = (*mockUserService)(nil)
	_ services.AssetGroupServicer   = (*mockAssetGroupService)(nil)
	_ services.AssetServicer        = (*mockAssetService)(nil)
	_ services.PriceHistoryServicer = (*mockPriceHistoryService)(nil)
	_ services.DebtServicer         = (*mockDebtService)(nil)
	_ services.NAVServicer          = (*mockNAVService)(nil)
	_ services.AuditServicer        = (*mockAuditService)(nil)
)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	config.Set(&config.Config{JWTSecret: "handler-test-secret", JWTExpirationDur: time.Hour})
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
