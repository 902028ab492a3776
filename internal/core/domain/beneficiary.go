package domain

import (
	"errors"
	"time"
)

// ViolenceType classifies the situation reported at intake.
type ViolenceType string

const (
	ViolencePhysical      ViolenceType = "physical"
	ViolencePsychological ViolenceType = "psychological"
	ViolenceSexual        ViolenceType = "sexual"
	ViolenceEconomic      ViolenceType = "economic"
	ViolencePatrimonial   ViolenceType = "patrimonial"
	ViolenceOther         ViolenceType = "other"
)

// ViolenceTypes lists every accepted classification.
var ViolenceTypes = []ViolenceType{
	ViolencePhysical, ViolencePsychological, ViolenceSexual,
	ViolenceEconomic, ViolencePatrimonial, ViolenceOther,
}

// IsValid reports whether the value is a member of the enum.
func (v ViolenceType) IsValid() bool {
	for _, t := range ViolenceTypes {
		if v == t {
			return true
		}
	}
	return false
}

// DocumentType identifies the kind of identity document presented.
type DocumentType string

const (
	DocumentDNI       DocumentType = "dni"
	DocumentPassport  DocumentType = "passport"
	DocumentForeignID DocumentType = "foreign_id"
	DocumentOther     DocumentType = "other"
)

func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentDNI, DocumentPassport, DocumentForeignID, DocumentOther:
		return true
	}
	return false
}

// HousingStatus describes the beneficiary's living situation.
type HousingStatus string

const (
	HousingOwned  HousingStatus = "owned"
	HousingRented HousingStatus = "rented"
	HousingFamily HousingStatus = "family"
	HousingOther  HousingStatus = "other"
)

func (h HousingStatus) IsValid() bool {
	switch h {
	case HousingOwned, HousingRented, HousingFamily, HousingOther:
		return true
	}
	return false
}

// AttentionType classifies a follow-up visit.
type AttentionType string

const (
	AttentionPsychological AttentionType = "psychological"
	AttentionLegal         AttentionType = "legal"
	AttentionSocial        AttentionType = "social"
	AttentionMedical       AttentionType = "medical"
	AttentionOther         AttentionType = "other"
)

func (a AttentionType) IsValid() bool {
	switch a {
	case AttentionPsychological, AttentionLegal, AttentionSocial, AttentionMedical, AttentionOther:
		return true
	}
	return false
}

var ErrBeneficiaryNotFound = errors.New("beneficiary not found")
var ErrFollowUpNotFlagged = errors.New("follow-up notes require the follow-up flag")

// Beneficiary is the case record of one person seeking services.
// Records are historical: they are deactivated, never hard-deleted.
type Beneficiary struct {
	ID                   uint          `json:"id" gorm:"primaryKey"`
	Code                 string        `json:"code" gorm:"size:20;uniqueIndex;not null"`
	FirstNames           string        `json:"first_names" gorm:"size:100;not null;index"`
	LastNames            string        `json:"last_names" gorm:"size:100;not null;index"`
	DocumentType         DocumentType  `json:"document_type" gorm:"size:20;not null"`
	DocumentNumber       string        `json:"document_number" gorm:"size:30;index"`
	BirthDate            *time.Time    `json:"birth_date,omitempty"`
	Phone                string        `json:"phone" gorm:"size:30"`
	Address              string        `json:"address" gorm:"size:250"`
	IntakeAt             time.Time     `json:"intake_at" gorm:"not null;index"`
	ViolenceType         ViolenceType  `json:"violence_type" gorm:"size:20;not null;index"`
	SituationDescription string        `json:"situation_description" gorm:"type:text"`
	HealthNotes          string        `json:"health_notes" gorm:"type:text"`
	DependentsCount      int           `json:"dependents_count" gorm:"not null;default:0"`
	HousingStatus        HousingStatus `json:"housing_status" gorm:"size:20;not null"`
	FollowUpRequired     bool          `json:"follow_up_required" gorm:"not null;default:false;index"`
	FollowUpNotes        string        `json:"follow_up_notes" gorm:"type:text"`
	IntakeUserID         uint          `json:"intake_user_id" gorm:"not null"`
	Active               bool          `json:"active" gorm:"not null;default:true"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// FollowUpVisit records one dated attention given to a beneficiary after intake.
type FollowUpVisit struct {
	ID               uint          `json:"id" gorm:"primaryKey"`
	BeneficiaryID    uint          `json:"beneficiary_id" gorm:"not null;index"`
	VisitAt          time.Time     `json:"visit_at" gorm:"not null"`
	AttentionType    AttentionType `json:"attention_type" gorm:"size:20;not null"`
	Notes            string        `json:"notes" gorm:"type:text"`
	RecordedByUserID uint          `json:"recorded_by_user_id" gorm:"not null"`
	CreatedAt        time.Time     `json:"created_at"`
}
