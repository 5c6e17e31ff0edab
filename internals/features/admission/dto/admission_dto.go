package dto

import (
	model "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/model"
	service "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/service"
)

/* =========================================================
   REQUEST
   ========================================================= */

// Buka sesi wizard. Semua field opsional: kosong = pendaftar baru,
// NIK saja = coba pulihkan draft, NIK+token+WA = login lanjut-isi.
type OpenSessionRequest struct {
	NIK   string `json:"nik" validate:"omitempty,numeric,len=16"`
	Token string `json:"token" validate:"omitempty,min=6"`
	WA    string `json:"wa" validate:"omitempty"`
}

type SetFieldRequest struct {
	Name string `json:"name" validate:"required"`
	// Value untuk field string; Checked untuk flag boolean
	Value   string `json:"value"`
	Checked *bool  `json:"checked"`
	// daftar sumber informasi (khusus field infoSource)
	List []string `json:"list"`
}

type BlurRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

type StepRequest struct {
	Direction string `json:"direction" validate:"required,oneof=next back"`
}

type RegionSelectRequest struct {
	Level int    `json:"level" validate:"min=0,max=3"`
	ID    string `json:"id"`
	// isian teks bebas saat resolver sudah turun ke mode manual
	Value string `json:"value"`
}

type RegisterRequest struct {
	CaptchaToken string `json:"captchaToken"`
	BotField     string `json:"botField"`
}

/* =========================================================
   RESPONSE
   ========================================================= */

type SessionResponse struct {
	SessionID    string            `json:"sessionId"`
	SessionToken string            `json:"sessionToken"`
	Status       string            `json:"status"` // "new" | "resumed" | "complete"
	CurrentStep  int               `json:"currentStep"`
	Submission   *model.Submission `json:"submission"`
	ManualRegion bool              `json:"manualRegion"`
	Toasts       []service.Toast   `json:"toasts,omitempty"`
}

type RegionOptionsResponse struct {
	Level   int                    `json:"level"`
	Manual  bool                   `json:"manual"`
	Options []service.RegionOption `json:"options"`
}

// Data bukti pendaftaran cetak (hanya setelah submit sukses).
type ReceiptResponse struct {
	RegID          string `json:"regId"`
	FullName       string `json:"fullName"`
	NISN           string `json:"nisn"`
	BirthPlace     string `json:"birthPlace"`
	BirthDate      string `json:"birthDate"`
	SchoolChoice   string `json:"schoolChoice"`
	SmkMajor       string `json:"smkMajor"`
	Address        string `json:"address"`
	FatherName     string `json:"fatherName"`
	MotherName     string `json:"motherName"`
	ParentWaNumber string `json:"parentWaNumber"`
	WAHelpNumber   string `json:"waHelpNumber"`
}

func NewReceiptResponse(sub *model.Submission, regID, waHelp string) *ReceiptResponse {
	return &ReceiptResponse{
		RegID:          regID,
		FullName:       sub.FullName,
		NISN:           sub.NISN,
		BirthPlace:     sub.BirthPlace,
		BirthDate:      sub.BirthDate,
		SchoolChoice:   sub.SchoolChoice,
		SmkMajor:       sub.SmkMajor,
		Address:        sub.ComposedAddress(),
		FatherName:     sub.FatherName,
		MotherName:     sub.MotherName,
		ParentWaNumber: sub.ParentWaNumber,
		WAHelpNumber:   waHelp,
	}
}
