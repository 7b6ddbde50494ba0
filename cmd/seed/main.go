package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/database"
	"github.com/meridian-grc/meridian/backend/internal/models"
)

func main() {
	dbPath := os.Getenv("MERIDIAN_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/meridian.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Framework{},
		&models.Requirement{},
		&models.Control{},
		&models.Evidence{},
		&models.Policy{},
		&models.PolicyVersion{},
		&models.Acknowledgment{},
		&models.Risk{},
		&models.RiskHistory{},
		&models.Alert{},
		&models.NotificationProvider{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	admin := seedUsers(db)
	soc2 := seedFramework(db, "SOC 2 Type 2", "2017",
		"Service Organization Control 2 - Security, Availability, Processing Integrity, Confidentiality, and Privacy",
		soc2Requirements)
	iso := seedFramework(db, "ISO 27001:2013", "2013",
		"International Standard for Information Security Management Systems",
		isoRequirements)
	seedControls(db, admin, soc2, iso)
	seedPolicies(db)
	seedRisks(db, admin)

	fmt.Println("\n✓ Database seeding completed successfully!")
}

func seedUsers(db *gorm.DB) *models.User {
	adminEmail := os.Getenv("MERIDIAN_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@meridian.local"
	}
	adminPassword := os.Getenv("MERIDIAN_ADMIN_PASSWORD")

	var admin models.User
	if err := db.Where("email = ?", adminEmail).First(&admin).Error; err != nil {
		admin = models.User{
			Email:    adminEmail,
			FullName: "System Administrator",
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		if adminPassword != "" {
			if err := admin.SetPassword(adminPassword); err != nil {
				log.Printf("Failed to hash admin password: %v", err)
			}
		} else {
			// Non-loginable placeholder until reset-password is run
			admin.PasswordHash = "$2a$10$example_hashed_password"
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatal("Failed to seed admin user:", err)
		}
		fmt.Printf("✓ Created admin user: %s\n", admin.Email)
	} else {
		fmt.Printf("  Admin user already exists: %s\n", admin.Email)
	}

	demoUsers := []struct {
		Email    string
		FullName string
		Role     models.Role
		Password string
	}{
		{"compliance@meridian.local", "Compliance Officer", models.RoleComplianceOfficer, "compliance123"},
		{"auditor@external.com", "External Auditor", models.RoleExternalAuditor, "auditor123"},
		{"employee@meridian.local", "John Employee", models.RoleEmployee, "employee123"},
	}

	for _, data := range demoUsers {
		var existing models.User
		if err := db.Where("email = ?", data.Email).First(&existing).Error; err == nil {
			fmt.Printf("  User already exists: %s\n", data.Email)
			continue
		}
		user := models.User{
			Email:    data.Email,
			FullName: data.FullName,
			Role:     data.Role,
			IsActive: true,
		}
		if err := user.SetPassword(data.Password); err != nil {
			log.Printf("Failed to hash password for %s: %v", data.Email, err)
			continue
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Failed to seed user %s: %v", data.Email, err)
		} else {
			fmt.Printf("✓ Created demo user: %s\n", user.Email)
		}
	}

	return &admin
}

type requirementSeed struct {
	Code        string
	Title       string
	Description string
}

var soc2Requirements = []requirementSeed{
	{"CC1.1", "Control Environment - Integrity and Ethics", "The entity demonstrates a commitment to integrity and ethical values"},
	{"CC1.2", "Board Independence and Oversight", "The board of directors demonstrates independence from management"},
	{"CC6.1", "Logical Access Controls", "The entity implements logical access security software, infrastructure, and architectures"},
	{"CC6.2", "Access Authorization", "Prior to issuing system credentials and granting system access, the entity registers and authorizes new internal and external users"},
	{"CC6.3", "User Access Removal", "The entity removes access to the system when appropriate"},
	{"CC6.6", "Multi-Factor Authentication", "The entity implements multi-factor authentication for accessing the system"},
	{"CC6.7", "Access Restrictions", "The entity restricts the transmission, movement, and removal of information"},
	{"CC7.1", "Security Incident Detection", "The entity uses detection tools and monitoring procedures to identify anomalies"},
	{"CC7.2", "Incident Response", "The entity monitors system components and the operation of those components"},
	{"CC8.1", "Change Management", "The entity authorizes, designs, develops or acquires, configures, documents, tests, approves, and implements changes to infrastructure"},
}

var isoRequirements = []requirementSeed{
	{"A.5.1.1", "Information Security Policies", "A set of policies for information security shall be defined"},
	{"A.6.1.2", "Segregation of Duties", "Conflicting duties and areas of responsibility shall be segregated"},
	{"A.9.2.1", "User Registration and De-registration", "A formal user registration and de-registration process shall be implemented"},
	{"A.9.2.3", "Management of Privileged Access Rights", "The allocation and use of privileged access rights shall be restricted and controlled"},
	{"A.9.4.2", "Secure Log-on Procedures", "Access to systems and applications shall be controlled by a secure log-on procedure"},
	{"A.9.4.3", "Password Management System", "Password management systems shall be interactive and ensure quality passwords"},
	{"A.12.1.2", "Change Management", "Changes to the organization, business processes, information processing facilities shall be controlled"},
	{"A.12.4.1", "Event Logging", "Event logs recording user activities, exceptions, faults and information security events shall be produced"},
	{"A.16.1.1", "Responsibilities and Procedures for Incident Response", "Management responsibilities and procedures shall be established"},
	{"A.18.1.1", "Identification of Applicable Legislation", "All relevant legislative statutory, regulatory, contractual requirements shall be identified"},
}

func seedFramework(db *gorm.DB, name, version, description string, reqs []requirementSeed) *models.Framework {
	var framework models.Framework
	if err := db.Where("name = ? AND version = ?", name, version).First(&framework).Error; err == nil {
		fmt.Printf("  Framework already exists: %s\n", name)
		return &framework
	}

	framework = models.Framework{Name: name, Version: version, Description: description}
	if err := db.Create(&framework).Error; err != nil {
		log.Fatal("Failed to seed framework:", err)
	}

	for _, r := range reqs {
		req := models.Requirement{
			FrameworkID: framework.ID,
			Code:        r.Code,
			Title:       r.Title,
			Description: r.Description,
		}
		if err := db.Create(&req).Error; err != nil {
			log.Printf("Failed to seed requirement %s: %v", r.Code, err)
		}
	}

	fmt.Printf("✓ Created framework %s with %d requirements\n", name, len(reqs))
	return &framework
}

type controlSeed struct {
	Title                 string
	Description           string
	Status                models.ControlStatus
	ImplementationDetails string
	Requirements          []string
}

var controlSeeds = []controlSeed{
	{
		Title:                 "Multi-Factor Authentication (MFA) Enforcement",
		Description:           "All users must authenticate using MFA for accessing critical systems and applications",
		Status:                models.ControlImplemented,
		ImplementationDetails: "MFA enabled via SSO provider for all production systems",
		Requirements:          []string{"CC6.6", "A.9.4.2"},
	},
	{
		Title:                 "User Access Review Process",
		Description:           "Quarterly review of user access rights and permissions",
		Status:                models.ControlImplemented,
		ImplementationDetails: "Automated access review process with manager approval workflow",
		Requirements:          []string{"CC6.2", "A.9.2.3"},
	},
	{
		Title:                 "User Offboarding Procedure",
		Description:           "Immediate revocation of access upon employee termination",
		Status:                models.ControlImplemented,
		ImplementationDetails: "Automated deprovisioning tied to HR system",
		Requirements:          []string{"CC6.3", "A.9.2.1"},
	},
	{
		Title:                 "Security Information and Event Monitoring (SIEM)",
		Description:           "24/7 monitoring of security events and anomalies",
		Status:                models.ControlInProgress,
		ImplementationDetails: "SIEM tool deployed, tuning alert rules in progress",
		Requirements:          []string{"CC7.1", "A.12.4.1"},
	},
	{
		Title:                 "Incident Response Plan",
		Description:           "Documented procedures for detecting, responding to, and recovering from security incidents",
		Status:                models.ControlImplemented,
		ImplementationDetails: "IR plan documented and tested quarterly",
		Requirements:          []string{"CC7.2", "A.16.1.1"},
	},
	{
		Title:                 "Change Management Process",
		Description:           "All changes to production systems follow a documented approval process",
		Status:                models.ControlImplemented,
		ImplementationDetails: "Ticketing system with approval workflow and rollback procedures",
		Requirements:          []string{"CC8.1", "A.12.1.2"},
	},
	{
		Title:                 "Information Security Policy Suite",
		Description:           "Comprehensive set of security policies covering all aspects of information security",
		Status:                models.ControlImplemented,
		ImplementationDetails: "Policies reviewed and approved annually by management",
		Requirements:          []string{"CC1.1", "A.5.1.1"},
	},
	{
		Title:                 "Password Complexity Requirements",
		Description:           "Enforce strong password policies across all systems",
		Status:                models.ControlImplemented,
		ImplementationDetails: "Minimum 12 characters, complexity requirements enforced",
		Requirements:          []string{"A.9.4.3"},
	},
	{
		Title:                 "Segregation of Duties",
		Description:           "Critical functions require multiple approvals to prevent fraud",
		Status:                models.ControlInProgress,
		ImplementationDetails: "SoD matrix created, implementing in financial systems",
		Requirements:          []string{"A.6.1.2"},
	},
	{
		Title:                 "Compliance Training Program",
		Description:           "Annual security awareness training for all employees",
		Status:                models.ControlNotStarted,
		ImplementationDetails: "Training platform selected, content being developed",
		Requirements:          []string{"CC1.1", "A.18.1.1"},
	},
}

func seedControls(db *gorm.DB, admin *models.User, frameworks ...*models.Framework) {
	var count int64
	db.Model(&models.Control{}).Count(&count)
	if count > 0 {
		fmt.Println("  Controls already exist, skipping control seeding")
		return
	}

	reqByCode := map[string]models.Requirement{}
	for _, f := range frameworks {
		var reqs []models.Requirement
		if err := db.Where("framework_id = ?", f.ID).Find(&reqs).Error; err != nil {
			log.Printf("Failed to load requirements for %s: %v", f.Name, err)
			continue
		}
		for _, r := range reqs {
			reqByCode[r.Code] = r
		}
	}

	for _, data := range controlSeeds {
		control := models.Control{
			Title:                 data.Title,
			Description:           data.Description,
			Status:                data.Status,
			ImplementationDetails: data.ImplementationDetails,
			OwnerID:               &admin.ID,
		}
		for _, code := range data.Requirements {
			if req, ok := reqByCode[code]; ok {
				control.Requirements = append(control.Requirements, req)
			}
		}
		if err := db.Create(&control).Error; err != nil {
			log.Printf("Failed to seed control %s: %v", data.Title, err)
		}
	}

	fmt.Printf("✓ Created %d sample controls\n", len(controlSeeds))
}

func seedPolicies(db *gorm.DB) {
	var count int64
	db.Model(&models.Policy{}).Count(&count)
	if count > 0 {
		fmt.Println("  Policies already exist, skipping policy seeding")
		return
	}

	policies := []models.Policy{
		{Title: "Information Security Policy", Version: "1.0", Content: informationSecurityPolicy},
		{Title: "Acceptable Use Policy", Version: "1.0", Content: acceptableUsePolicy},
		{Title: "Access Control Policy", Version: "1.0", Content: accessControlPolicy},
		{Title: "Incident Response Policy", Version: "1.0", Content: incidentResponsePolicy},
		{Title: "Data Protection and Privacy Policy", Version: "1.0", Content: dataProtectionPolicy},
	}

	for i := range policies {
		if err := db.Create(&policies[i]).Error; err != nil {
			log.Printf("Failed to seed policy %s: %v", policies[i].Title, err)
		}
	}

	fmt.Printf("✓ Created %d policy templates\n", len(policies))
}

func seedRisks(db *gorm.DB, admin *models.User) {
	var count int64
	db.Model(&models.Risk{}).Count(&count)
	if count > 0 {
		fmt.Println("  Risks already exist, skipping risk seeding")
		return
	}

	risks := []struct {
		Title       string
		Description string
		Likelihood  int
		Impact      int
		Category    string
	}{
		{"Phishing attack against staff", "Credential theft via targeted phishing emails", 4, 4, "security"},
		{"Unpatched production systems", "Critical vulnerabilities remain exploitable between patch cycles", 3, 5, "security"},
		{"Vendor data breach", "A third-party processor leaks customer data", 2, 5, "third_party"},
		{"Backup restore failure", "Backups exist but restores are untested", 2, 4, "operational"},
	}

	for _, data := range risks {
		score := data.Likelihood * data.Impact
		level := models.RiskLow
		switch {
		case score >= 20:
			level = models.RiskCritical
		case score >= 12:
			level = models.RiskHigh
		case score >= 6:
			level = models.RiskMedium
		}
		risk := models.Risk{
			Title:       data.Title,
			Description: data.Description,
			Likelihood:  data.Likelihood,
			Impact:      data.Impact,
			RiskScore:   score,
			RiskLevel:   level,
			Category:    data.Category,
			Status:      models.RiskIdentified,
			OwnerID:     &admin.ID,
		}
		if err := db.Create(&risk).Error; err != nil {
			log.Printf("Failed to seed risk %s: %v", data.Title, err)
			continue
		}
		history := models.RiskHistory{
			RiskID:            risk.ID,
			ChangedByID:       &admin.ID,
			ChangeDescription: fmt.Sprintf("Risk created with status: %s", risk.Status),
		}
		if err := db.Create(&history).Error; err != nil {
			log.Printf("Failed to seed risk history for %s: %v", data.Title, err)
		}
	}

	fmt.Printf("✓ Created %d sample risks\n", len(risks))
}
