package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/models"
)

// ReportService produces the flat report rows auditors export. Reports
// are plain derivations of current entity state; all score and percentage
// math comes from the scorer and aggregation components, never inline.
type ReportService struct {
	db   *gorm.DB
	acks *AcknowledgmentService
}

func NewReportService(db *gorm.DB, acks *AcknowledgmentService) *ReportService {
	return &ReportService{db: db, acks: acks}
}

// RiskRegisterEntry is one row of the risk register report.
type RiskRegisterEntry struct {
	ID                 uint              `json:"id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	Likelihood         int               `json:"likelihood"`
	Impact             int               `json:"impact"`
	RiskScore          int               `json:"risk_score"`
	RiskLevel          models.RiskLevel  `json:"risk_level"`
	Category           string            `json:"category"`
	Status             models.RiskStatus `json:"status"`
	Owner              string            `json:"owner"`
	MitigatingControls []string          `json:"mitigating_controls"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// RiskRegister returns every risk with owner and mitigating control
// titles resolved.
func (s *ReportService) RiskRegister() ([]RiskRegisterEntry, error) {
	var risks []models.Risk
	err := s.db.Preload("MitigatingControls").Preload("Owner").
		Order("risk_score desc").Find(&risks).Error
	if err != nil {
		return nil, err
	}

	entries := make([]RiskRegisterEntry, 0, len(risks))
	for _, risk := range risks {
		owner := "Unassigned"
		if risk.Owner != nil {
			owner = risk.Owner.FullName
		}
		controls := make([]string, 0, len(risk.MitigatingControls))
		for _, c := range risk.MitigatingControls {
			controls = append(controls, c.Title)
		}
		entries = append(entries, RiskRegisterEntry{
			ID:                 risk.ID,
			Title:              risk.Title,
			Description:        risk.Description,
			Likelihood:         risk.Likelihood,
			Impact:             risk.Impact,
			RiskScore:          risk.RiskScore,
			RiskLevel:          risk.RiskLevel,
			Category:           risk.Category,
			Status:             risk.Status,
			Owner:              owner,
			MitigatingControls: controls,
			CreatedAt:          risk.CreatedAt,
			UpdatedAt:          risk.UpdatedAt,
		})
	}
	return entries, nil
}

// ComplianceReportRow pairs a requirement with one control satisfying it.
type ComplianceReportRow struct {
	RequirementCode  string               `json:"requirement_code"`
	RequirementTitle string               `json:"requirement_title"`
	ControlID        uint                 `json:"control_id"`
	ControlTitle     string               `json:"control_title"`
	ControlStatus    models.ControlStatus `json:"control_status"`
	ControlOwner     string               `json:"control_owner"`
	EvidenceCount    int                  `json:"evidence_count"`
	LastChecked      *time.Time           `json:"last_checked"`
}

// ComplianceReport is the requirement-by-requirement view of a framework.
type ComplianceReport struct {
	FrameworkName    string                `json:"framework_name"`
	FrameworkVersion string                `json:"framework_version"`
	ReportDate       time.Time             `json:"report_date"`
	Rows             []ComplianceReportRow `json:"rows"`
}

// Compliance builds the per-framework audit report: every requirement
// crossed with the controls mapped to it.
func (s *ReportService) Compliance(frameworkID uint) (*ComplianceReport, error) {
	var framework models.Framework
	if err := s.db.First(&framework, frameworkID).Error; err != nil {
		return nil, ErrFrameworkNotFound
	}

	var requirements []models.Requirement
	err := s.db.Preload("Controls.Evidence").Preload("Controls.Owner").
		Where("framework_id = ?", frameworkID).Order("code asc").
		Find(&requirements).Error
	if err != nil {
		return nil, err
	}

	report := &ComplianceReport{
		FrameworkName:    framework.Name,
		FrameworkVersion: framework.Version,
		ReportDate:       time.Now(),
		Rows:             []ComplianceReportRow{},
	}
	for _, req := range requirements {
		for _, control := range req.Controls {
			owner := "Unassigned"
			if control.Owner != nil {
				owner = control.Owner.FullName
			}
			report.Rows = append(report.Rows, ComplianceReportRow{
				RequirementCode:  req.Code,
				RequirementTitle: req.Title,
				ControlID:        control.ID,
				ControlTitle:     control.Title,
				ControlStatus:    control.Status,
				ControlOwner:     owner,
				EvidenceCount:    len(control.Evidence),
				LastChecked:      control.LastChecked,
			})
		}
	}
	return report, nil
}

// PolicyAcknowledgments is the acknowledgment tracker report; exposed
// here so the report surface is uniform.
func (s *ReportService) PolicyAcknowledgments(policyID uint) (*AcknowledgmentReport, error) {
	return s.acks.Report(policyID)
}
