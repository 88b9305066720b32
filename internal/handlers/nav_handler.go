package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "navtracker/internal/errors"
	"navtracker/internal/models"
	"navtracker/internal/services"
)

const (
	dashboardSnapshotCount = 30
	dashboardRecentCount   = 5
)

// NAVHandler serves NAV figures, snapshots, the dashboard and reports.
type NAVHandler struct {
	navService   services.NAVServicer
	assetService services.AssetServicer
	debtService  services.DebtServicer
	auditService services.AuditServicer
	now          func() time.Time
}

// NewNAVHandler creates a new NAVHandler.
func NewNAVHandler(navService services.NAVServicer, assetService services.AssetServicer, debtService services.DebtServicer, auditService services.AuditServicer) *NAVHandler {
	return &NAVHandler{
		navService:   navService,
		assetService: assetService,
		debtService:  debtService,
		auditService: auditService,
		now:          time.Now,
	}
}

// SnapshotResponse is a stored snapshot with its breakdown decoded.
type SnapshotResponse struct {
	ID            string             `json:"id"`
	TotalAssets   decimal.Decimal    `json:"total_assets" swaggertype:"string"`
	TotalDebts    decimal.Decimal    `json:"total_debts" swaggertype:"string"`
	NetAssetValue decimal.Decimal    `json:"net_asset_value" swaggertype:"string"`
	Breakdown     services.Breakdown `json:"breakdown"`
	CreatedAt     time.Time          `json:"created_at"`
}

// DashboardResponse is the payload of the dashboard endpoint.
type DashboardResponse struct {
	NAV          *services.NAV      `json:"nav"`
	Snapshots    []SnapshotResponse `json:"snapshots"`
	RecentAssets []models.Asset     `json:"recent_assets"`
	RecentDebts  []models.Debt      `json:"recent_debts"`
}

// ReportsResponse holds the monthly and yearly snapshot series.
type ReportsResponse struct {
	Year    int                `json:"year"`
	Years   int                `json:"years"`
	Monthly []SnapshotResponse `json:"monthly"`
	Yearly  []SnapshotResponse `json:"yearly"`
}

func toSnapshotResponse(snapshot *models.NAVSnapshot) (SnapshotResponse, error) {
	breakdown, err := services.DecodeBreakdown(snapshot)
	if err != nil {
		return SnapshotResponse{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return SnapshotResponse{
		ID:            snapshot.ID,
		TotalAssets:   snapshot.TotalAssets,
		TotalDebts:    snapshot.TotalDebts,
		NetAssetValue: snapshot.NetAssetValue,
		Breakdown:     *breakdown,
		CreatedAt:     snapshot.CreatedAt,
	}, nil
}

func toSnapshotResponses(snapshots []models.NAVSnapshot) ([]SnapshotResponse, error) {
	out := make([]SnapshotResponse, 0, len(snapshots))
	for i := range snapshots {
		resp, err := toSnapshotResponse(&snapshots[i])
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// GetNAV returns the user's current NAV.
// @Summary     Current NAV
// @Description Total assets minus active debts, in the base currency.
// @Tags        nav
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.NAV "Current NAV"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /nav [get]
func (h *NAVHandler) GetNAV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	nav, err := h.navService.CalculateCurrentNAV(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"nav": nav})
}

// CreateSnapshot records the current NAV as a snapshot.
// @Summary     Take NAV snapshot
// @Tags        nav
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} SnapshotResponse "Snapshot"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /nav/snapshots [post]
func (h *NAVHandler) CreateSnapshot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.navService.CreateSnapshot(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	resp, err := toSnapshotResponse(snapshot)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, services.AuditResourceNAVSnapshot, snapshot.ID, c.ClientIP(),
		map[string]interface{}{"net_asset_value": snapshot.NetAssetValue.String()})

	c.JSON(http.StatusCreated, gin.H{"snapshot": resp})
}

// GetSnapshots lists recent snapshots, newest first.
// @Summary     List NAV snapshots
// @Tags        nav
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum number of snapshots (default 30)"
// @Success     200 {array} SnapshotResponse "Snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /nav/snapshots [get]
func (h *NAVHandler) GetSnapshots(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query struct {
		Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	snapshots, err := h.navService.GetSnapshots(userID, query.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	resp, err := toSnapshotResponses(snapshots)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots": resp})
}

// GetSnapshot returns one snapshot.
// @Summary     Get NAV snapshot
// @Tags        nav
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Snapshot ID"
// @Success     200 {object} SnapshotResponse "Snapshot"
// @Failure     404 {object} ErrorResponse "Snapshot not found"
// @Router      /nav/snapshots/{id} [get]
func (h *NAVHandler) GetSnapshot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	snapshotID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.navService.GetSnapshotByID(userID, snapshotID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	resp, err := toSnapshotResponse(snapshot)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshot": resp})
}

// GetReports returns the monthly series for a year and the yearly series.
// @Summary     NAV reports
// @Tags        nav
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int false "Calendar year for the monthly series (default current year)"
// @Param       years query int false "Number of past years in the yearly series (default 5)"
// @Success     200 {object} ReportsResponse "Reports"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /nav/reports [get]
func (h *NAVHandler) GetReports(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query struct {
		Year  int `form:"year" binding:"omitempty,min=1970,max=9999"`
		Years int `form:"years" binding:"omitempty,min=1,max=50"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if query.Year == 0 {
		query.Year = h.now().UTC().Year()
	}
	if query.Years == 0 {
		query.Years = services.DefaultYearlySpan
	}

	monthly, err := h.navService.GetMonthlySnapshots(userID, query.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}
	yearly, err := h.navService.GetYearlySnapshots(userID, query.Years)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := ReportsResponse{Year: query.Year, Years: query.Years}
	if resp.Monthly, err = toSnapshotResponses(monthly); err != nil {
		respondWithError(c, err)
		return
	}
	if resp.Yearly, err = toSnapshotResponses(yearly); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetDashboard returns the current NAV with recent snapshots, assets and debts.
// @Summary     Dashboard
// @Tags        nav
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} DashboardResponse "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard [get]
func (h *NAVHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	nav, err := h.navService.CalculateCurrentNAV(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	snapshots, err := h.navService.GetSnapshots(userID, dashboardSnapshotCount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	assets, err := h.assetService.GetRecentAssets(userID, dashboardRecentCount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debts, err := h.debtService.GetRecentDebts(userID, dashboardRecentCount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := DashboardResponse{NAV: nav, RecentAssets: assets, RecentDebts: debts}
	if resp.Snapshots, err = toSnapshotResponses(snapshots); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
