package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "navtracker/internal/errors"
	"navtracker/internal/models"
	"navtracker/internal/services"
)

const testGroupID = "0190a1b2-0000-7000-8000-000000000010"

func setupAssetGroupRouter(handler *AssetGroupHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/asset-groups", handler.CreateAssetGroup)
	auth.GET("/asset-groups", handler.GetAssetGroups)
	auth.GET("/asset-groups/:id", handler.GetAssetGroup)
	auth.PUT("/asset-groups/:id", handler.UpdateAssetGroup)
	auth.DELETE("/asset-groups/:id", handler.DeleteAssetGroup)
	return r
}

func TestAssetGroupHandler_Create(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotType models.AssetGroupType
		var gotCurrency string
		svc := &mockAssetGroupService{
			createFn: func(userID, name, _ string, groupType models.AssetGroupType, _, currency string) (*models.AssetGroup, error) {
				gotType, gotCurrency = groupType, currency
				return &models.AssetGroup{Base: models.Base{ID: testGroupID}, UserID: userID, Name: name, Type: groupType}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupAssetGroupRouter(NewAssetGroupHandler(svc, audit))

		rec := doRequest(r, "POST", "/asset-groups", `{"name":"Crypto wallet","type":"crypto","currency":"USD"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotType != models.AssetGroupTypeCrypto || gotCurrency != "USD" {
			t.Errorf("unexpected arguments %s %s", gotType, gotCurrency)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "create:asset_group" {
			t.Errorf("unexpected audit actions %v", audit.actions)
		}
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		r := setupAssetGroupRouter(NewAssetGroupHandler(&mockAssetGroupService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/asset-groups", `{"name":"Boats","type":"boat"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on unsupported currency", func(t *testing.T) {
		r := setupAssetGroupRouter(NewAssetGroupHandler(&mockAssetGroupService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/asset-groups", `{"name":"Euro","type":"savings","currency":"EUR"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAssetGroupHandler_Get(t *testing.T) {
	t.Run("returns 400 on malformed id", func(t *testing.T) {
		r := setupAssetGroupRouter(NewAssetGroupHandler(&mockAssetGroupService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/asset-groups/42", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockAssetGroupService{
			getWithAssets: func(_, _ string) (*models.AssetGroup, error) {
				return nil, apperrors.ErrAssetGroupNotFound
			},
		}
		r := setupAssetGroupRouter(NewAssetGroupHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/asset-groups/"+testGroupID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ASSET_GROUP_NOT_FOUND")
	})

	t.Run("returns group with assets", func(t *testing.T) {
		svc := &mockAssetGroupService{
			getWithAssets: func(_, groupID string) (*models.AssetGroup, error) {
				return &models.AssetGroup{
					Base:   models.Base{ID: groupID},
					Assets: []models.Asset{{Name: "BTC"}},
				}, nil
			},
		}
		r := setupAssetGroupRouter(NewAssetGroupHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/asset-groups/"+testGroupID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		group := parseJSON(t, rec)["asset_group"].(map[string]interface{})
		if assets, _ := group["assets"].([]interface{}); len(assets) != 1 {
			t.Errorf("expected 1 asset, got %v", group["assets"])
		}
	})
}

func TestAssetGroupHandler_Update(t *testing.T) {
	var gotCurrency *string
	var gotType *models.AssetGroupType
	svc := &mockAssetGroupService{
		updateFn: func(_, _ string, _, _ *string, groupType *models.AssetGroupType, _, currency *string) (*models.AssetGroup, error) {
			gotType, gotCurrency = groupType, currency
			return &models.AssetGroup{}, nil
		},
	}
	r := setupAssetGroupRouter(NewAssetGroupHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "PUT", "/asset-groups/"+testGroupID, `{"currency":"USD"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotCurrency == nil || *gotCurrency != "USD" {
		t.Errorf("expected currency USD, got %v", gotCurrency)
	}
	if gotType != nil {
		t.Errorf("expected type to be left unchanged, got %v", *gotType)
	}
}

func TestAssetGroupHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		result     services.DeleteResult
		wantStatus int
		wantCode   string
	}{
		{"deleted", services.DeleteResult{Success: true}, http.StatusNoContent, ""},
		{"has_assets", services.DeleteResult{Reason: services.DeleteReasonHasAssets}, http.StatusConflict, "ASSET_GROUP_HAS_ASSETS"},
		{"not_found", services.DeleteResult{Reason: services.DeleteReasonNotFound}, http.StatusNotFound, "ASSET_GROUP_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAssetGroupService{
				deleteFn: func(_, _ string) (services.DeleteResult, error) { return tt.result, nil },
			}
			r := setupAssetGroupRouter(NewAssetGroupHandler(svc, &mockAuditService{}))

			rec := doRequest(r, "DELETE", "/asset-groups/"+testGroupID, "")

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantCode != "" {
				assertErrorCode(t, parseJSON(t, rec), tt.wantCode)
			}
		})
	}
}
