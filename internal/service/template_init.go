package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/docuassist/backend/internal/model"
)

// InitDefaultTemplates 初始化预置模板数据
// 模板正文覆盖三种占位符语法和常见字段写法
func InitDefaultTemplates(db *gorm.DB) error {
	// 已有模板则跳过初始化
	var count int64
	if err := db.Model(&model.Template{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []model.Template{
		{
			ID:          uuid.NewString(),
			Name:        "NDA",
			Description: "Mutual non-disclosure agreement between two parties",
			Category:    "legal",
			IsActive:    true,
			Content: `NON-DISCLOSURE AGREEMENT

This Non-Disclosure Agreement (the "Agreement") is entered into as of [Effective Date] by and between:

Disclosing Party: {PARTY_A}
Receiving Party: {PARTY_B}

1. CONFIDENTIAL INFORMATION
The Disclosing Party may share confidential and proprietary information with the Receiving Party for the purpose of {purpose}.

2. OBLIGATIONS
The Receiving Party agrees to hold all Confidential Information in strict confidence and not to disclose it to any third party.

3. TERM
This Agreement remains in effect for a period of {term} years from the Effective Date.

Signed,

{PARTY_A}                      {PARTY_B}`,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Invoice",
			Description: "Simple service invoice for billing a client",
			Category:    "finance",
			IsActive:    true,
			Content: `INVOICE

Invoice Number: [Invoice Number]
Invoice Date: [Invoice Date]

Bill To:
[Client Name]
[Address]

Description of services: {service description}
Amount due: {amount}

Payment is due within <payment_terms> days of the invoice date.
Please reference the invoice number with your payment.`,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Business Letter",
			Description: "Formal business correspondence letter",
			Category:    "correspondence",
			IsActive:    true,
			Content: `[Your Name]
[Address]
[Date]

Dear [Recipient Name],

{letter body}

Sincerely,

[Your Name]
[Company Name]`,
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range defaults {
			if err := tx.Create(&defaults[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
