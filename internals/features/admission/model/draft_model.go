package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NOTE:
// - snapshot: JSON Submission tanpa lampiran & tanpa persetujuan
// - token_hash: bcrypt dari token lanjut-isi yang dikirim admin via WA,
//   nullable selama token belum diterbitkan
// - satu NIK = satu draft aktif (last writer wins, sengaja tanpa locking)
type AdmissionDraftModel struct {
	AdmissionDraftID  uuid.UUID `gorm:"column:admission_draft_id;type:uuid;default:gen_random_uuid();primaryKey" json:"admission_draft_id"`
	AdmissionDraftNIK string    `gorm:"column:admission_draft_nik;type:varchar(16);not null;uniqueIndex" json:"admission_draft_nik"`

	AdmissionDraftSnapshot datatypes.JSON `gorm:"column:admission_draft_snapshot;type:jsonb;not null" json:"admission_draft_snapshot"`
	AdmissionDraftStep     int            `gorm:"column:admission_draft_step;not null;default:1" json:"admission_draft_step"`

	AdmissionDraftTokenHash *string `gorm:"column:admission_draft_token_hash;type:text" json:"-"`

	AdmissionDraftCreatedAt time.Time      `gorm:"column:admission_draft_created_at;not null;autoCreateTime" json:"admission_draft_created_at"`
	AdmissionDraftUpdatedAt time.Time      `gorm:"column:admission_draft_updated_at;not null;autoUpdateTime" json:"admission_draft_updated_at"`
	AdmissionDraftDeletedAt gorm.DeletedAt `gorm:"column:admission_draft_deleted_at;index" json:"admission_draft_deleted_at,omitempty"`
}

func (AdmissionDraftModel) TableName() string { return "admission_drafts" }
