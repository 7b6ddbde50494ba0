package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/metrics"
	"github.com/meridian-grc/meridian/backend/internal/models"
)

var (
	ErrPolicyNotFound   = errors.New("policy not found")
	ErrAlreadyPublished = errors.New("policy already published")
	ErrPolicyLocked     = errors.New("published policy cannot be edited")
)

type PolicyService struct {
	db *gorm.DB
}

func NewPolicyService(db *gorm.DB) *PolicyService {
	return &PolicyService{db: db}
}

// PolicyPatch carries the mutable fields of a draft policy.
type PolicyPatch struct {
	Title   *string
	Content *string
	Version *string
}

// Create stores a new draft policy.
func (s *PolicyService) Create(policy *models.Policy) error {
	if err := requireText("title", policy.Title); err != nil {
		return err
	}
	if policy.Version == "" {
		policy.Version = "1.0"
	}
	policy.IsPublished = false
	policy.PublishedAt = nil
	return s.db.Create(policy).Error
}

// GetByID retrieves a policy.
func (s *PolicyService) GetByID(id uint) (*models.Policy, error) {
	var policy models.Policy
	if err := s.db.First(&policy, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}
	return &policy, nil
}

// List retrieves policies. When publishedOnly is set, drafts are hidden.
// That is the view employees get.
func (s *PolicyService) List(publishedOnly bool) ([]models.Policy, error) {
	var policies []models.Policy
	query := s.db.Order("created_at desc")
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if err := query.Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// Update edits a draft. Published content must stay stable for audit
// integrity, so content and version edits on a published policy fail with
// ErrPolicyLocked regardless of what the calling UI allowed. Superseded
// draft content is kept as a PolicyVersion row.
func (s *PolicyService) Update(id uint, patch PolicyPatch) (*models.Policy, error) {
	policy, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if policy.IsPublished && (patch.Content != nil || patch.Version != nil) {
		return nil, ErrPolicyLocked
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.Version != nil {
		updates["version"] = *patch.Version
	}
	if len(updates) == 0 {
		return policy, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if patch.Content != nil && *patch.Content != policy.Content {
			version := models.PolicyVersion{
				PolicyID: policy.ID,
				Version:  policy.Version,
				Content:  policy.Content,
			}
			if err := tx.Create(&version).Error; err != nil {
				return err
			}
		}
		return tx.Model(policy).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Publish flips a draft to published exactly once. The update is a
// compare-and-swap on is_published so concurrent publish attempts cannot
// both win: the loser sees zero rows affected and gets ErrAlreadyPublished
// with published_at untouched.
func (s *PolicyService) Publish(id uint) (*models.Policy, error) {
	policy, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := s.db.Model(&models.Policy{}).
		Where("id = ? AND is_published = ?", id, false).
		Updates(map[string]interface{}{"is_published": true, "published_at": now})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyPublished
	}

	metrics.IncPolicyPublish()
	policy.IsPublished = true
	policy.PublishedAt = &now
	return policy, nil
}

// Delete removes a policy along with its acknowledgments and version
// history.
func (s *PolicyService) Delete(id uint) error {
	policy, err := s.GetByID(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("policy_id = ?", id).Delete(&models.Acknowledgment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("policy_id = ?", id).Delete(&models.PolicyVersion{}).Error; err != nil {
			return err
		}
		return tx.Delete(policy).Error
	})
}

// ListVersions returns the superseded draft snapshots of a policy, newest
// first.
func (s *PolicyService) ListVersions(policyID uint) ([]models.PolicyVersion, error) {
	var versions []models.PolicyVersion
	err := s.db.Where("policy_id = ?", policyID).Order("created_at desc").Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}
