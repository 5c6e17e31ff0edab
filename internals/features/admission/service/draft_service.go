package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/model"
)

/* =========================================================
   DRAFT SERVICE — snapshot tersanitasi (tanpa lampiran,
   tanpa persetujuan) per NIK. Satu-satunya penulis adalah
   autosave; satu-satunya penghapus adalah submit sukses.
   ========================================================= */

// DraftStore adalah kontrak penyimpanan draft yang dipakai sesi
// (autosave/restore) dan orchestrator (hapus setelah sukses).
type DraftStore interface {
	Save(nik string, snapshot []byte, step int) error
	Load(nik string) (*model.AdmissionDraftModel, error)
	Delete(nik string) error
}

type DraftService struct {
	DB *gorm.DB
}

var _ DraftStore = (*DraftService)(nil)

func NewDraftService(db *gorm.DB) *DraftService {
	return &DraftService{DB: db}
}

// Save meng-upsert draft milik satu NIK (last writer wins).
func (d *DraftService) Save(nik string, snapshot []byte, step int) error {
	row := model.AdmissionDraftModel{
		AdmissionDraftNIK:      nik,
		AdmissionDraftSnapshot: snapshot,
		AdmissionDraftStep:     step,
	}
	err := d.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "admission_draft_nik"}},
		DoUpdates: clause.AssignmentColumns([]string{"admission_draft_snapshot", "admission_draft_step", "admission_draft_updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("gagal menyimpan draft: %w", err)
	}
	return nil
}

// Load mengambil draft milik satu NIK; nil bila tidak ada.
func (d *DraftService) Load(nik string) (*model.AdmissionDraftModel, error) {
	var row model.AdmissionDraftModel
	err := d.DB.Where("admission_draft_nik = ?", nik).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gagal memuat draft: %w", err)
	}
	return &row, nil
}

// Delete menghapus draft — dipanggil tepat sekali setelah submit sukses.
func (d *DraftService) Delete(nik string) error {
	if err := d.DB.Where("admission_draft_nik = ?", nik).Delete(&model.AdmissionDraftModel{}).Error; err != nil {
		return fmt.Errorf("gagal menghapus draft: %w", err)
	}
	return nil
}

// SetResumeToken menyimpan bcrypt dari token lanjut-isi yang
// diterbitkan admin, supaya bocornya tabel draft tidak membocorkan token.
func (d *DraftService) SetResumeToken(nik, token string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("gagal hash token: %w", err)
	}
	h := string(hash)
	err = d.DB.Model(&model.AdmissionDraftModel{}).
		Where("admission_draft_nik = ?", nik).
		Update("admission_draft_token_hash", &h).Error
	if err != nil {
		return fmt.Errorf("gagal menyimpan token: %w", err)
	}
	return nil
}

// VerifyResumeToken mencocokkan token dengan hash tersimpan.
func (d *DraftService) VerifyResumeToken(nik, token string) (bool, error) {
	row, err := d.Load(nik)
	if err != nil {
		return false, err
	}
	if row == nil || row.AdmissionDraftTokenHash == nil {
		return false, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(*row.AdmissionDraftTokenHash), []byte(token))
	return err == nil, nil
}
