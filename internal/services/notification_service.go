package services

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/logger"
	"github.com/meridian-grc/meridian/backend/internal/models"
)

var ErrProviderNotFound = errors.New("notification provider not found")

// NotificationService fans alert notifications out to configured
// shoutrrr destinations (Slack, Discord, SMTP, generic webhooks).
// Delivery is best effort and never blocks the caller.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

var discordWebhookRegex = regexp.MustCompile(`^https://discord(?:app)?\.com/api/webhooks/(\d+)/([a-zA-Z0-9_-]+)`)

// normalizeURL rewrites raw Discord webhook URLs into shoutrrr's
// discord:// scheme; everything else passes through untouched.
func normalizeURL(serviceType, rawURL string) string {
	if serviceType == "discord" {
		matches := discordWebhookRegex.FindStringSubmatch(rawURL)
		if len(matches) == 3 {
			return fmt.Sprintf("discord://%s@%s", matches[2], matches[1])
		}
	}
	return rawURL
}

// ListProviders returns all configured notification providers.
func (s *NotificationService) ListProviders() ([]models.NotificationProvider, error) {
	var providers []models.NotificationProvider
	if err := s.DB.Order("name asc").Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

// CreateProvider stores a new notification destination.
func (s *NotificationService) CreateProvider(provider *models.NotificationProvider) error {
	return s.DB.Create(provider).Error
}

// UpdateProvider replaces a provider's configuration.
func (s *NotificationService) UpdateProvider(provider *models.NotificationProvider) error {
	result := s.DB.Model(&models.NotificationProvider{}).
		Where("id = ?", provider.ID).
		Updates(map[string]interface{}{
			"name":          provider.Name,
			"type":          provider.Type,
			"url":           provider.URL,
			"enabled":       provider.Enabled,
			"critical_only": provider.CriticalOnly,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProviderNotFound
	}
	return nil
}

// DeleteProvider removes a notification destination.
func (s *NotificationService) DeleteProvider(id uint) error {
	result := s.DB.Delete(&models.NotificationProvider{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProviderNotFound
	}
	return nil
}

// TestProvider sends a test message to a single provider, synchronously,
// so configuration mistakes surface to the caller.
func (s *NotificationService) TestProvider(provider models.NotificationProvider) error {
	url := normalizeURL(provider.Type, provider.URL)
	return shoutrrr.Send(url, "Test notification from Meridian")
}

// SendAlert delivers an alert to every enabled provider whose severity
// filter matches.
func (s *NotificationService) SendAlert(alert *models.Alert) {
	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.WithError(err).Error("Failed to fetch notification providers")
		return
	}

	for _, provider := range providers {
		if provider.CriticalOnly && alert.Severity != models.AlertCritical {
			continue
		}

		go func(p models.NotificationProvider) {
			url := normalizeURL(p.Type, p.URL)
			msg := fmt.Sprintf("[%s] %s\n\n%s", alert.Severity, alert.Title, alert.Description)
			if err := shoutrrr.Send(url, msg); err != nil {
				logger.WithFields(map[string]interface{}{
					"provider": p.Name,
				}).WithError(err).Error("Failed to send alert notification")
			}
		}(provider)
	}
}
