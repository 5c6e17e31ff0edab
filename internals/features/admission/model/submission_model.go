package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

/* =========================================================
   SUBMISSION — satu agregat data pendaftaran yang diisi
   bertahap lewat wizard. Tag JSON mengikuti kolom di
   spreadsheet PSB (camelCase).
   ========================================================= */

type Submission struct {
	RegID      string   `json:"regId"`
	InfoSource []string `json:"infoSource"`

	// Identitas santri
	FullName       string `json:"fullName"`
	NIK            string `json:"nik"`
	Gender         string `json:"gender"`
	NISN           string `json:"nisn"`
	BirthPlace     string `json:"birthPlace"`
	BirthDate      string `json:"birthDate"`
	PreviousSchool string `json:"previousSchool"`

	// Pilihan jenjang
	SchoolChoice string `json:"schoolChoice"`
	SmkMajor     string `json:"smkMajor"`

	// Alamat (province..village harus sama dengan `name` hasil lookup wilayah)
	Province        string `json:"province"`
	City            string `json:"city"`
	District        string `json:"district"`
	Village         string `json:"village"`
	SpecificAddress string `json:"specificAddress"`
	RT              string `json:"rt"`
	RW              string `json:"rw"`
	PostalCode      string `json:"postalCode"`

	// Kontak
	ParentWaNumber string `json:"parentWaNumber"`

	// Data periodik
	Height       string `json:"height"`
	Weight       string `json:"weight"`
	SiblingCount string `json:"siblingCount"`
	ChildOrder   string `json:"childOrder"`

	// Orang tua
	FatherName            string `json:"fatherName"`
	FatherEducation       string `json:"fatherEducation"`
	FatherOccupation      string `json:"fatherOccupation"`
	FatherOccupationOther string `json:"fatherOccupationOther"`
	FatherIncome          string `json:"fatherIncome"`

	MotherName            string `json:"motherName"`
	MotherEducation       string `json:"motherEducation"`
	MotherOccupation      string `json:"motherOccupation"`
	MotherOccupationOther string `json:"motherOccupationOther"`
	MotherIncome          string `json:"motherIncome"`

	// Wali (opsional, wajib semua bila HasGuardian = true)
	HasGuardian             bool   `json:"hasGuardian"`
	GuardianName            string `json:"guardianName"`
	GuardianEducation       string `json:"guardianEducation"`
	GuardianOccupation      string `json:"guardianOccupation"`
	GuardianOccupationOther string `json:"guardianOccupationOther"`
	GuardianIncome          string `json:"guardianIncome"`

	// Persetujuan — tidak pernah ikut draft, harus dicentang ulang
	TermsAgreed    bool `json:"termsAgreed"`
	FinalAgreement bool `json:"finalAgreement"`
}

// NewSubmission mengembalikan Submission kosong dengan default enum
// yang sama seperti formulir saat pertama dibuka.
func NewSubmission() *Submission {
	return &Submission{
		InfoSource:       []string{},
		Gender:           "Laki-laki",
		SchoolChoice:     SchoolLevelSMP,
		FatherEducation:  "SMA / Sederajat",
		FatherOccupation: "Wiraswasta",
		FatherIncome:     "Rp 1.000.000 - Rp 2.000.000",
		MotherEducation:  "SMA / Sederajat",
		MotherOccupation: "Ibu Rumah Tangga",
		MotherIncome:     "Tidak Berpenghasilan",
	}
}

/* =========================================================
   AKSES FIELD PER NAMA — dipakai SetField/OnBlur/validasi
   ========================================================= */

// Field mengembalikan nilai string sebuah field berdasarkan nama JSON-nya.
func (s *Submission) Field(name string) (string, bool) {
	switch name {
	case "regId":
		return s.RegID, true
	case "fullName":
		return s.FullName, true
	case "nik":
		return s.NIK, true
	case "gender":
		return s.Gender, true
	case "nisn":
		return s.NISN, true
	case "birthPlace":
		return s.BirthPlace, true
	case "birthDate":
		return s.BirthDate, true
	case "previousSchool":
		return s.PreviousSchool, true
	case "schoolChoice":
		return s.SchoolChoice, true
	case "smkMajor":
		return s.SmkMajor, true
	case "province":
		return s.Province, true
	case "city":
		return s.City, true
	case "district":
		return s.District, true
	case "village":
		return s.Village, true
	case "specificAddress":
		return s.SpecificAddress, true
	case "rt":
		return s.RT, true
	case "rw":
		return s.RW, true
	case "postalCode":
		return s.PostalCode, true
	case "parentWaNumber":
		return s.ParentWaNumber, true
	case "height":
		return s.Height, true
	case "weight":
		return s.Weight, true
	case "siblingCount":
		return s.SiblingCount, true
	case "childOrder":
		return s.ChildOrder, true
	case "fatherName":
		return s.FatherName, true
	case "fatherEducation":
		return s.FatherEducation, true
	case "fatherOccupation":
		return s.FatherOccupation, true
	case "fatherOccupationOther":
		return s.FatherOccupationOther, true
	case "fatherIncome":
		return s.FatherIncome, true
	case "motherName":
		return s.MotherName, true
	case "motherEducation":
		return s.MotherEducation, true
	case "motherOccupation":
		return s.MotherOccupation, true
	case "motherOccupationOther":
		return s.MotherOccupationOther, true
	case "motherIncome":
		return s.MotherIncome, true
	case "guardianName":
		return s.GuardianName, true
	case "guardianEducation":
		return s.GuardianEducation, true
	case "guardianOccupation":
		return s.GuardianOccupation, true
	case "guardianOccupationOther":
		return s.GuardianOccupationOther, true
	case "guardianIncome":
		return s.GuardianIncome, true
	}
	return "", false
}

// SetField menulis nilai string ke field berdasarkan nama JSON-nya.
func (s *Submission) SetField(name, value string) bool {
	switch name {
	case "regId":
		s.RegID = value
	case "fullName":
		s.FullName = value
	case "nik":
		s.NIK = value
	case "gender":
		s.Gender = value
	case "nisn":
		s.NISN = value
	case "birthPlace":
		s.BirthPlace = value
	case "birthDate":
		s.BirthDate = value
	case "previousSchool":
		s.PreviousSchool = value
	case "schoolChoice":
		s.SchoolChoice = value
	case "smkMajor":
		s.SmkMajor = value
	case "province":
		s.Province = value
	case "city":
		s.City = value
	case "district":
		s.District = value
	case "village":
		s.Village = value
	case "specificAddress":
		s.SpecificAddress = value
	case "rt":
		s.RT = value
	case "rw":
		s.RW = value
	case "postalCode":
		s.PostalCode = value
	case "parentWaNumber":
		s.ParentWaNumber = value
	case "height":
		s.Height = value
	case "weight":
		s.Weight = value
	case "siblingCount":
		s.SiblingCount = value
	case "childOrder":
		s.ChildOrder = value
	case "fatherName":
		s.FatherName = value
	case "fatherEducation":
		s.FatherEducation = value
	case "fatherOccupation":
		s.FatherOccupation = value
	case "fatherOccupationOther":
		s.FatherOccupationOther = value
	case "fatherIncome":
		s.FatherIncome = value
	case "motherName":
		s.MotherName = value
	case "motherEducation":
		s.MotherEducation = value
	case "motherOccupation":
		s.MotherOccupation = value
	case "motherOccupationOther":
		s.MotherOccupationOther = value
	case "motherIncome":
		s.MotherIncome = value
	case "guardianName":
		s.GuardianName = value
	case "guardianEducation":
		s.GuardianEducation = value
	case "guardianOccupation":
		s.GuardianOccupation = value
	case "guardianOccupationOther":
		s.GuardianOccupationOther = value
	case "guardianIncome":
		s.GuardianIncome = value
	default:
		return false
	}
	return true
}

// SetBoolField menulis field boolean (flag wali & persetujuan).
func (s *Submission) SetBoolField(name string, value bool) bool {
	switch name {
	case "hasGuardian":
		s.HasGuardian = value
	case "termsAgreed":
		s.TermsAgreed = value
	case "finalAgreement":
		s.FinalAgreement = value
	default:
		return false
	}
	return true
}

/* =========================================================
   SNAPSHOT DRAFT — berkas tidak pernah ikut tersimpan,
   persetujuan di-reset saat draft dimuat ulang.
   ========================================================= */

// Snapshot men-serialize Submission untuk autosave. Lampiran disimpan
// terpisah (in-memory per sesi) jadi tidak pernah masuk snapshot.
func (s *Submission) Snapshot() ([]byte, error) {
	copy := *s
	copy.TermsAgreed = false
	copy.FinalAgreement = false
	return json.Marshal(&copy)
}

// MergeSnapshot menimpa Submission baru dengan isi draft tersimpan.
// RegID & NIK yang sudah ada di sesi (hasil login) menang atas draft.
func (s *Submission) MergeSnapshot(raw []byte) error {
	keepRegID, keepNIK := s.RegID, s.NIK
	if err := json.Unmarshal(raw, s); err != nil {
		return fmt.Errorf("draft rusak: %w", err)
	}
	if keepRegID != "" {
		s.RegID = keepRegID
	}
	if keepNIK != "" {
		s.NIK = keepNIK
	}
	// Persetujuan harus dicentang ulang setiap sesi
	s.TermsAgreed = false
	s.FinalAgreement = false
	if s.InfoSource == nil {
		s.InfoSource = []string{}
	}
	return nil
}

// ComposedAddress merangkai alamat untuk bukti pendaftaran cetak.
func (s *Submission) ComposedAddress() string {
	if s.Province == "" || s.City == "" {
		return s.SpecificAddress
	}
	return fmt.Sprintf("%s, RT %s/RW %s, %s, %s, %s",
		s.SpecificAddress, s.RT, s.RW, s.Village, s.District, s.City)
}

// JoinedInfoSource meratakan daftar sumber informasi jadi satu string.
func (s *Submission) JoinedInfoSource() string {
	return strings.Join(s.InfoSource, ", ")
}
