package services

import (
	"encoding/json"

	apperrors "navtracker/internal/errors"
	"navtracker/internal/logger"
	"navtracker/internal/models"

	"gorm.io/gorm"
)

// Audit actions.
const (
	AuditActionCreate  = "create"
	AuditActionUpdate  = "update"
	AuditActionDelete  = "delete"
	AuditActionRefresh = "refresh"
)

// Audited resource types.
const (
	AuditResourceUser        = "user"
	AuditResourceAssetGroup  = "asset_group"
	AuditResourceAsset       = "asset"
	AuditResourceDebt        = "debt"
	AuditResourceNAVSnapshot = "nav_snapshot"
)

// DefaultActivityLimit is the number of audit entries ListRecent returns
// when no positive limit is given.
const DefaultActivityLimit = 20

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records a mutation of a user-owned record. Failures are logged and
// swallowed; the mutation itself has already been committed.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}
	if len(changes) > 0 {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Warnw("dropping unencodable audit changes", "error", err, "action", action, "resource_type", resourceType)
		} else {
			entry.Changes = string(data)
		}
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to write audit entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// ListRecent returns the user's latest audit entries, newest first.
func (s *auditService) ListRecent(userID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	var entries []models.AuditLog
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}
