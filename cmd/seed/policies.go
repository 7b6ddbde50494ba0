package main

const informationSecurityPolicy = `# Information Security Policy

## 1. Purpose
This policy establishes the framework for protecting the organization's information assets and ensuring the confidentiality, integrity, and availability of information.

## 2. Scope
This policy applies to all employees, contractors, vendors, and third parties who have access to company information systems.

## 3. Policy Statements

### 3.1 Information Classification
All information must be classified according to its sensitivity level (Public, Internal, Confidential, Restricted).

### 3.2 Access Control
Access to information systems shall be granted based on the principle of least privilege and need-to-know basis.

### 3.3 Physical Security
Physical access to facilities containing information systems shall be restricted and monitored.

### 3.4 Incident Response
All suspected or actual security incidents must be reported immediately to the Security Team.

### 3.5 Compliance
All personnel must comply with applicable laws, regulations, and contractual obligations related to information security.

## 4. Responsibilities
- **Employees**: Protect information assets and report security concerns
- **Managers**: Ensure team members understand and comply with security policies
- **Security Team**: Monitor, maintain, and enforce security controls
- **IT Department**: Implement technical security measures

## 5. Enforcement
Violations of this policy may result in disciplinary action, up to and including termination.

## 6. Review
This policy will be reviewed annually and updated as necessary.

**Policy Owner**: Chief Information Security Officer
`

const acceptableUsePolicy = `# Acceptable Use Policy

## 1. Purpose
This policy outlines the acceptable use of the organization's information technology resources.

## 2. Scope
This policy applies to all users of company IT resources, including employees, contractors, and visitors.

## 3. Acceptable Use

### 3.1 Business Use
Company IT resources are provided for business purposes. Limited personal use is permitted if it does not interfere with job duties.

### 3.2 Account Security
- Users must keep passwords confidential
- Do not share accounts or credentials
- Lock workstations when unattended
- Report lost or stolen devices immediately

### 3.3 Email and Communication
- Use professional language in business communications
- Do not send confidential information via unencrypted email
- Be cautious of phishing attempts

## 4. Prohibited Activities
The following activities are strictly prohibited:
- Unauthorized access to systems or data
- Installing unlicensed software
- Downloading or distributing malicious software
- Harassment or discrimination via company systems
- Using company resources for illegal activities
- Attempting to bypass security controls

## 5. Monitoring
The company reserves the right to monitor all use of IT resources to ensure compliance with this policy.

## 6. Consequences
Violations may result in disciplinary action, including termination and legal action.

**Policy Owner**: IT Director
`

const accessControlPolicy = `# Access Control Policy

## 1. Purpose
Define requirements for granting, managing, and revoking access to information systems and data.

## 2. Scope
Applies to all systems, applications, and data repositories.

## 3. Access Request Process

### 3.1 User Access Requests
- Access must be requested through the IT ticketing system
- Requests require manager approval
- Access is granted based on job role and responsibilities

### 3.2 Privileged Access
- Privileged access requires additional approval from Security Team
- Must have documented business justification
- Subject to enhanced monitoring

## 4. Multi-Factor Authentication
MFA is required for:
- Remote access to corporate network
- Access to cloud applications
- Privileged accounts
- Access to sensitive data

## 5. Password Requirements
- Minimum 12 characters
- Mix of uppercase, lowercase, numbers, and special characters
- Changed every 90 days
- Cannot reuse last 5 passwords

## 6. Access Review
- User access rights reviewed quarterly
- Manager approval required for continued access
- Unused accounts disabled after 30 days of inactivity

## 7. Access Revocation
Access must be revoked:
- Immediately upon termination
- Within 24 hours of role change
- When access is no longer needed

**Policy Owner**: Chief Information Security Officer
`

const incidentResponsePolicy = `# Incident Response Policy

## 1. Purpose
Establish procedures for detecting, responding to, and recovering from security incidents.

## 2. Definitions
A security incident is any event that compromises the confidentiality, integrity, or availability of information or systems.

## 3. Incident Classification

### 3.1 Severity Levels
- **Critical**: Major service outage or data breach
- **High**: Significant threat to security or operations
- **Medium**: Potential security concern
- **Low**: Minor issue with minimal impact

## 4. Incident Response Process

### 4.1 Detection and Reporting
- All personnel must report suspected incidents immediately
- Do not attempt to investigate on your own

### 4.2 Initial Response
- Security Team assesses and classifies the incident
- Incident Commander assigned for Critical/High incidents
- Initial containment actions taken

### 4.3 Investigation
- Preserve evidence
- Document all actions
- Identify root cause
- Assess impact

### 4.4 Containment and Eradication
- Isolate affected systems
- Remove threat
- Patch vulnerabilities

### 4.5 Recovery
- Restore systems from clean backups
- Verify system integrity
- Return to normal operations

### 4.6 Post-Incident Review
- Document lessons learned
- Update procedures
- Implement preventive measures

## 5. Communication
- Internal: Management notified for High/Critical incidents
- External: Legal and PR consulted before external communication
- Regulatory: Comply with breach notification requirements

## 6. Training
All personnel receive annual incident response training.

**Policy Owner**: Chief Information Security Officer
`

const dataProtectionPolicy = `# Data Protection and Privacy Policy

## 1. Purpose
Protect personal and sensitive data in compliance with privacy regulations.

## 2. Scope
Applies to all processing of personal data by the organization.

## 3. Data Classification

### 3.1 Personal Data
Information that identifies an individual (name, email, phone, etc.)

### 3.2 Sensitive Data
Special categories requiring extra protection (financial data, health records, etc.)

## 4. Data Collection
- Collect only data necessary for business purposes
- Obtain consent where required
- Provide clear privacy notices

## 5. Data Use and Disclosure
- Use data only for stated purposes
- Do not sell personal data
- Disclose only with consent or legal requirement

## 6. Data Storage and Security
- Encrypt sensitive data at rest and in transit
- Store data only in approved locations
- Implement access controls

## 7. Data Retention
- Retain data only as long as necessary
- Follow retention schedule
- Securely delete when no longer needed

## 8. Data Subject Rights
Individuals have the right to:
- Access their data
- Correct inaccuracies
- Request deletion
- Object to processing
- Data portability

## 9. Data Breach Response
- Report breaches to Privacy Officer within 24 hours
- Notify affected individuals and regulators as required
- Document all breaches

## 10. Third-Party Data Processing
- Vet vendors for security and privacy practices
- Execute Data Processing Agreements
- Monitor vendor compliance

## 11. Training
All personnel handling personal data receive privacy training.

**Policy Owner**: Privacy Officer / DPO
`
