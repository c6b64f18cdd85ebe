package services

import (
	"encoding/json"

	"civicbudget/internal/logger"
	"civicbudget/internal/models"

	"gorm.io/gorm"
)

// Audit actions.
const (
	AuditActionPhaseAdvance          = "phase.advance"
	AuditActionPhaseSet              = "phase.set"
	AuditActionClassificationUpdate  = "investment.classification"
	AuditActionHeadingReassign       = "investment.heading"
	AuditActionConfidenceScoreUpdate = "investment.confidence_score"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// logAudit records the event when audit is configured.
func logAudit(audit AuditServicer, actor Actor, action, resourceType string, resourceID uint, changes map[string]any) {
	if audit == nil {
		return
	}
	audit.Log(actor.UserID, action, resourceType, resourceID, actor.IPAddress, changes)
}
