package validation

import (
	model "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/model"
)

/* =========================================================
   PEMBAGIAN STEP — validasi parsial per langkah wizard.
   Field pengendali (schoolChoice, hasGuardian, occupation)
   selalu satu step dengan field yang bergantung padanya,
   supaya aturan kondisional tidak memblokir step lebih awal.
   ========================================================= */

// Step formulir lengkap:
// 1 = Data Siswa, 2 = Orang Tua, 3 = Berkas, 4 = Konfirmasi
var StepFields = map[int][]string{
	1: {
		"schoolChoice", "smkMajor",
		"fullName", "nik", "gender", "nisn",
		"birthPlace", "birthDate", "previousSchool",
		"province", "city", "district", "village", "specificAddress", "rt", "rw", "postalCode",
		"height", "weight", "siblingCount", "childOrder",
	},
	2: {
		"fatherName", "fatherEducation", "fatherOccupation", "fatherOccupationOther", "fatherIncome",
		"motherName", "motherEducation", "motherOccupation", "motherOccupationOther", "motherIncome",
		"guardianName", "guardianEducation", "guardianOccupation", "guardianOccupationOther", "guardianIncome",
		"parentWaNumber",
	},
	3: {"kartuKeluarga", "aktaKelahiran", "ktpWalimurid", "pasFoto", "ijazah"},
	4: {"finalAgreement"},
}

type StepResult struct {
	Success bool                `json:"success"`
	Errors  map[string][]string `json:"errors"`
}

// ValidateStep menjalankan validasi utuh lalu menyaring hasilnya ke
// field milik step tersebut saja. Step yang tidak dikenal dianggap lolos
// (step review murni tanpa field sendiri).
func ValidateStep(step int, sub *model.Submission, files map[string]*model.Attachment) StepResult {
	owned, ok := StepFields[step]
	if !ok {
		return StepResult{Success: true, Errors: map[string][]string{}}
	}

	all := Validate(sub, files)

	stepErrs := map[string][]string{}
	for _, field := range owned {
		if msgs, found := all[field]; found {
			stepErrs[field] = msgs
		}
	}

	return StepResult{Success: len(stepErrs) == 0, Errors: stepErrs}
}
