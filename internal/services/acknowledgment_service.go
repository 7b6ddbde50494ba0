package services

import (
	"errors"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/metrics"
	"github.com/meridian-grc/meridian/backend/internal/models"
)

var (
	ErrPolicyNotPublished  = errors.New("policy is not published")
	ErrAlreadyAcknowledged = errors.New("policy already acknowledged")
)

type AcknowledgmentService struct {
	db *gorm.DB
}

func NewAcknowledgmentService(db *gorm.DB) *AcknowledgmentService {
	return &AcknowledgmentService{db: db}
}

// AcknowledgmentReport summarizes who has and has not acknowledged a
// policy. acknowledged_count + pending_count always equals total_users.
type AcknowledgmentReport struct {
	PolicyID           uint          `json:"policy_id"`
	PolicyTitle        string        `json:"policy_title"`
	PolicyVersion      string        `json:"policy_version"`
	TotalUsers         int           `json:"total_users"`
	AcknowledgedCount  int           `json:"acknowledged_count"`
	PendingCount       int           `json:"pending_count"`
	AcknowledgmentRate int           `json:"acknowledgment_rate"`
	PendingUsers       []models.User `json:"pending_users"`
}

// Acknowledge records that a user accepted a published policy. Drafts
// cannot be acknowledged. The (policy, user) unique index decides races:
// under two concurrent calls exactly one row is stored and the loser gets
// ErrAlreadyAcknowledged, never a duplicate.
func (s *AcknowledgmentService) Acknowledge(policyID, userID uint) (*models.Acknowledgment, error) {
	var policy models.Policy
	if err := s.db.First(&policy, policyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}
	if !policy.IsPublished {
		return nil, ErrPolicyNotPublished
	}

	ack := models.Acknowledgment{
		PolicyID:      policyID,
		UserID:        userID,
		PolicyVersion: policy.Version,
	}
	if err := s.db.Create(&ack).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyAcknowledged
		}
		return nil, err
	}

	metrics.IncAcknowledgment()
	return &ack, nil
}

// Report computes acknowledgment statistics for a policy over the active
// user population. A later-activated user owes an acknowledgment the
// moment this is computed; the eligible set is not frozen at publish time.
// The rate is 100 for an empty population: nobody left waiting.
func (s *AcknowledgmentService) Report(policyID uint) (*AcknowledgmentReport, error) {
	var policy models.Policy
	if err := s.db.First(&policy, policyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}

	var eligible []models.User
	if err := s.db.Where("is_active = ?", true).Order("full_name asc").Find(&eligible).Error; err != nil {
		return nil, err
	}

	var acks []models.Acknowledgment
	if err := s.db.Where("policy_id = ?", policyID).Find(&acks).Error; err != nil {
		return nil, err
	}

	acknowledged := make(map[uint]bool, len(acks))
	for _, ack := range acks {
		acknowledged[ack.UserID] = true
	}

	pending := make([]models.User, 0)
	acknowledgedCount := 0
	for _, user := range eligible {
		if acknowledged[user.ID] {
			acknowledgedCount++
		} else {
			pending = append(pending, user)
		}
	}

	total := len(eligible)
	rate := 100
	if total > 0 {
		rate = int(math.Round(float64(acknowledgedCount) / float64(total) * 100))
	}

	return &AcknowledgmentReport{
		PolicyID:           policy.ID,
		PolicyTitle:        policy.Title,
		PolicyVersion:      policy.Version,
		TotalUsers:         total,
		AcknowledgedCount:  acknowledgedCount,
		PendingCount:       len(pending),
		AcknowledgmentRate: rate,
		PendingUsers:       pending,
	}, nil
}

// PendingFor returns the published policies the user has not yet
// acknowledged, oldest publication first. This drives the per-user
// obligation list and the dashboard pending count.
func (s *AcknowledgmentService) PendingFor(userID uint) ([]models.Policy, error) {
	var policies []models.Policy
	err := s.db.Where("is_published = ?", true).
		Where("id NOT IN (?)", s.db.Model(&models.Acknowledgment{}).
			Select("policy_id").Where("user_id = ?", userID)).
		Order("published_at asc").
		Find(&policies).Error
	if err != nil {
		return nil, err
	}
	return policies, nil
}

// isUniqueViolation recognizes a unique-index break without depending on
// driver-specific error types. SQLite reports "UNIQUE constraint failed";
// gorm.ErrDuplicatedKey covers dialects with translated errors.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
