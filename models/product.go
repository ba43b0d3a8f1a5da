package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a certified product row. ProductCode is the externally supplied
// identifier used to deduplicate spreadsheet imports.
type Product struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	PublicID       string         `gorm:"uniqueIndex;not null" json:"public_id"`
	ProductCode    string         `gorm:"column:product_code;uniqueIndex;not null" json:"producto_id"`
	Name           string         `gorm:"not null" json:"nombre"`
	Manufacturer   string         `gorm:"not null" json:"fabricante"`
	Date           time.Time      `gorm:"type:date;not null" json:"fecha"`
	QRCodeURL      *string        `gorm:"column:qr_code_url" json:"qr_code_url"`
	DJCURL         *string        `gorm:"column:djc_url" json:"djc_url"`
	CertificateURL *string        `gorm:"column:certificate_url" json:"certificado_url"`
	ClientID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"cliente_id"`
	ConsultantID   *uuid.UUID     `gorm:"type:uuid;index" json:"consultor_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PublicID == "" {
		p.PublicID = uuid.NewString()
	}
	return nil
}
