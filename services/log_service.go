package services

import (
	"encoding/json"
	"fmt"

	"github.com/udaypartap979/calorie-counter/models"

	"gorm.io/gorm"
)

// LogService appends aggregated envelopes as immutable records and reads them
// back newest first. After a successful insert it emits best-effort
// notifications; neither emission can fail the write.
type LogService struct {
	db     *gorm.DB
	notify *NotifyService // optional
	hub    *RealtimeHub   // optional
}

func NewLogService(db *gorm.DB, notify *NotifyService, hub *RealtimeHub) *LogService {
	return &LogService{db: db, notify: notify, hub: hub}
}

func (s *LogService) Insert(userID, userEmail string, env LogEnvelope, imageURL *string) (*models.MealLog, error) {
	raw, err := json.Marshal(env.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode log details: %w", err)
	}

	entry := &models.MealLog{
		UserID:        userID,
		UserEmail:     userEmail,
		ItemType:      env.ItemType,
		TotalCalories: env.TotalCalories,
		Details:       string(raw),
		ImageURL:      imageURL,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.LogCreated(entry)
	}
	if s.hub != nil {
		s.hub.BroadcastLog(entry.UserID, map[string]any{
			"kind": "log.created",
			"log":  entry,
		})
	}
	return entry, nil
}

func (s *LogService) ListByUser(userID string) ([]models.MealLog, error) {
	var entries []models.MealLog
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
