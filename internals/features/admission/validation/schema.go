package validation

import (
	"regexp"
	"strings"

	model "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/model"
)

/* =========================================================
   SKEMA FIELD — deklaratif: tipe, pola, enum, pesan.
   validate() mengembalikan map field → daftar pesan;
   field yang tidak ada di map berarti valid.
   ========================================================= */

// Batas ukuran berkas (dicek saat file dipilih, sebelum pipeline jalan)
const MaxFileSize = 2 * 1024 * 1024

var (
	nikRe    = regexp.MustCompile(`^\d{16}$`)
	nisnRe   = regexp.MustCompile(`^\d{10}$`)
	waRe     = regexp.MustCompile(`^(\+62|62|0)8[1-9][0-9]{7,11}$`)
	postalRe = regexp.MustCompile(`^\d{5}$`)
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}
var allowedDocumentTypes = []string{"image/jpeg", "image/png", "image/webp", "application/pdf"}

type fieldRule struct {
	name        string
	required    bool
	requiredMsg string
	pattern     *regexp.Regexp
	patternMsg  string
	enum        []string
	enumMsg     string
}

// Urutan deklarasi = urutan scroll ke error pertama.
var fieldRules = []fieldRule{
	{name: "schoolChoice", enum: model.SchoolLevels, enumMsg: "Jenjang pendidikan tidak valid"},
	{name: "fullName", required: true, requiredMsg: "Nama lengkap wajib diisi"},
	{name: "nik", pattern: nikRe, patternMsg: "NIK harus 16 digit angka"},
	{name: "gender", enum: model.Genders, enumMsg: "Jenis kelamin tidak valid"},
	{name: "birthPlace", required: true, requiredMsg: "Tempat lahir wajib diisi"},
	{name: "birthDate", required: true, requiredMsg: "Tanggal lahir wajib diisi"},
	{name: "previousSchool", required: true, requiredMsg: "Asal sekolah wajib diisi"},
	{name: "province", required: true, requiredMsg: "Provinsi wajib diisi"},
	{name: "city", required: true, requiredMsg: "Kabupaten/Kota wajib diisi"},
	{name: "district", required: true, requiredMsg: "Kecamatan wajib diisi"},
	{name: "village", required: true, requiredMsg: "Desa/Kelurahan wajib diisi"},
	{name: "specificAddress", required: true, requiredMsg: "Jalan/Dusun/No wajib diisi"},
	{name: "rt", required: true, requiredMsg: "RT wajib diisi"},
	{name: "rw", required: true, requiredMsg: "RW wajib diisi"},
	{name: "postalCode", pattern: postalRe, patternMsg: "Kode Pos harus 5 digit angka"},
	{name: "parentWaNumber", pattern: waRe, patternMsg: "No. WA tidak valid"},
	{name: "height", required: true, requiredMsg: "Tinggi badan wajib diisi"},
	{name: "weight", required: true, requiredMsg: "Berat badan wajib diisi"},
	{name: "siblingCount", required: true, requiredMsg: "Jumlah saudara kandung wajib diisi"},
	{name: "childOrder", required: true, requiredMsg: "Anak ke- wajib diisi"},
	{name: "fatherName", required: true, requiredMsg: "Nama ayah wajib diisi"},
	{name: "fatherEducation", enum: model.ParentEducations, enumMsg: "Pendidikan ayah tidak valid"},
	{name: "fatherOccupation", enum: model.ParentOccupations, enumMsg: "Pekerjaan ayah tidak valid"},
	{name: "fatherIncome", enum: model.ParentIncomes, enumMsg: "Penghasilan ayah tidak valid"},
	{name: "motherName", required: true, requiredMsg: "Nama ibu wajib diisi"},
	{name: "motherEducation", enum: model.ParentEducations, enumMsg: "Pendidikan ibu tidak valid"},
	{name: "motherOccupation", enum: model.ParentOccupations, enumMsg: "Pekerjaan ibu tidak valid"},
	{name: "motherIncome", enum: model.ParentIncomes, enumMsg: "Penghasilan ibu tidak valid"},
	// smkMajor, nisn, field wali & "pekerjaan lainnya" tidak punya aturan dasar:
	// kewajibannya bergantung field lain dan dicek lewat crossRules.
}

/* =========================================================
   ATURAN LINTAS FIELD — (predikat atas record, field, pesan)
   dievaluasi setelah cek dasar, hanya saat validasi utuh.
   ========================================================= */

type crossRule struct {
	when    func(*model.Submission) bool
	field   string
	message string
}

var crossRules = []crossRule{
	{
		when:    func(s *model.Submission) bool { return s.SchoolChoice == model.SchoolLevelSMK && strings.TrimSpace(s.SmkMajor) == "" },
		field:   "smkMajor",
		message: "Jurusan wajib dipilih untuk SMK",
	},
	{
		when:    func(s *model.Submission) bool { return model.LevelRequiresNISN(s.SchoolChoice) && !nisnRe.MatchString(s.NISN) },
		field:   "nisn",
		message: "NISN harus terdiri dari 10 digit angka",
	},
	{
		when: func(s *model.Submission) bool {
			return s.FatherOccupation == model.OccupationOther && strings.TrimSpace(s.FatherOccupationOther) == ""
		},
		field:   "fatherOccupationOther",
		message: "Detail pekerjaan Ayah wajib diisi",
	},
	{
		when: func(s *model.Submission) bool {
			return s.MotherOccupation == model.OccupationOther && strings.TrimSpace(s.MotherOccupationOther) == ""
		},
		field:   "motherOccupationOther",
		message: "Detail pekerjaan Ibu wajib diisi",
	},
	{
		when:    func(s *model.Submission) bool { return s.HasGuardian && strings.TrimSpace(s.GuardianName) == "" },
		field:   "guardianName",
		message: "Nama Wali wajib diisi",
	},
	{
		when:    func(s *model.Submission) bool { return s.HasGuardian && strings.TrimSpace(s.GuardianEducation) == "" },
		field:   "guardianEducation",
		message: "Pendidikan Wali wajib diisi",
	},
	{
		when:    func(s *model.Submission) bool { return s.HasGuardian && strings.TrimSpace(s.GuardianOccupation) == "" },
		field:   "guardianOccupation",
		message: "Pekerjaan Wali wajib diisi",
	},
	{
		when:    func(s *model.Submission) bool { return s.HasGuardian && strings.TrimSpace(s.GuardianIncome) == "" },
		field:   "guardianIncome",
		message: "Penghasilan Wali wajib diisi",
	},
	{
		when: func(s *model.Submission) bool {
			return s.HasGuardian && s.GuardianOccupation == model.OccupationOther && strings.TrimSpace(s.GuardianOccupationOther) == ""
		},
		field:   "guardianOccupationOther",
		message: "Detail pekerjaan Wali wajib diisi",
	},
}

/* =========================================================
   ATURAN BERKAS
   ========================================================= */

var fileRequiredMsg = map[string]string{
	"kartuKeluarga":           "File Kartu Keluarga wajib diunggah",
	"aktaKelahiran":           "File Akta Kelahiran wajib diunggah",
	"ktpWalimurid":            "File KTP Orang Tua/Wali wajib diunggah",
	"pasFoto":                 "Pas Foto wajib diunggah",
	"ijazah":                  "File Ijazah/SKL wajib diunggah",
	model.SlotBuktiPembayaran: "Bukti Pembayaran wajib diunggah",
}

// CheckAttachment memvalidasi satu slot berkas. att == nil berarti kosong.
func CheckAttachment(slot string, att *model.Attachment) string {
	if att == nil || att.Size <= 0 {
		return fileRequiredMsg[slot]
	}
	if att.Size > MaxFileSize {
		return "Ukuran file maksimal 2MB."
	}
	if model.SlotCategory(slot) == model.CategoryPhoto {
		if !model.InList(allowedImageTypes, att.Mime) {
			return "Format foto harus JPG, PNG, atau WEBP."
		}
		return ""
	}
	if !model.InList(allowedDocumentTypes, att.Mime) {
		return "Format file harus PDF, JPG, atau PNG."
	}
	return ""
}

/* =========================================================
   OPERASI VALIDASI
   ========================================================= */

// ValidateField menjalankan cek dasar satu field (dipakai saat blur).
// Aturan lintas field sengaja tidak dievaluasi di sini.
func ValidateField(name, value string) string {
	for _, r := range fieldRules {
		if r.name != name {
			continue
		}
		trimmed := strings.TrimSpace(value)
		if r.required && trimmed == "" {
			return r.requiredMsg
		}
		if r.pattern != nil && !r.pattern.MatchString(trimmed) {
			return r.patternMsg
		}
		if r.enum != nil && !model.InList(r.enum, value) {
			return r.enumMsg
		}
		return ""
	}
	return ""
}

// Validate menjalankan validasi formulir lengkap: aturan dasar, aturan
// lintas field, semua slot berkas, dan persetujuan akhir.
func Validate(sub *model.Submission, files map[string]*model.Attachment) map[string][]string {
	errs := map[string][]string{}

	for _, r := range fieldRules {
		value, _ := sub.Field(r.name)
		if msg := ValidateField(r.name, value); msg != "" {
			errs[r.name] = append(errs[r.name], msg)
		}
	}

	for _, cr := range crossRules {
		if cr.when(sub) {
			errs[cr.field] = append(errs[cr.field], cr.message)
		}
	}

	for _, slot := range model.FullFormSlots {
		if msg := CheckAttachment(slot, files[slot]); msg != "" {
			errs[slot] = append(errs[slot], msg)
		}
	}

	if !sub.FinalAgreement {
		errs["finalAgreement"] = append(errs["finalAgreement"], "Anda harus menyetujui pernyataan kebenaran data")
	}

	return errs
}

// ValidateRegistration memvalidasi formulir pendaftaran awal.
func ValidateRegistration(sub *model.Submission, payProof *model.Attachment) map[string][]string {
	errs := map[string][]string{}

	if len(sub.InfoSource) == 0 {
		errs["infoSource"] = append(errs["infoSource"], "Pilih minimal satu sumber informasi.")
	}
	for _, name := range []string{"fullName", "nik", "gender", "parentWaNumber"} {
		value, _ := sub.Field(name)
		if msg := ValidateField(name, value); msg != "" {
			errs[name] = append(errs[name], msg)
		}
	}
	if msg := CheckAttachment(model.SlotBuktiPembayaran, payProof); msg != "" {
		errs[model.SlotBuktiPembayaran] = append(errs[model.SlotBuktiPembayaran], msg)
	}
	if !sub.TermsAgreed {
		errs["termsAgreed"] = append(errs["termsAgreed"], "Wajib menyetujui")
	}

	return errs
}

// Urutan field persis seperti tampilan formulir — dipakai untuk
// menentukan field error pertama yang di-scroll.
var fieldOrder = []string{
	"infoSource",
	"schoolChoice", "smkMajor",
	"fullName", "nik", "gender", "nisn",
	"birthPlace", "birthDate", "previousSchool",
	"province", "city", "district", "village", "specificAddress", "rt", "rw", "postalCode",
	"parentWaNumber",
	"height", "weight", "siblingCount", "childOrder",
	"fatherName", "fatherEducation", "fatherOccupation", "fatherOccupationOther", "fatherIncome",
	"motherName", "motherEducation", "motherOccupation", "motherOccupationOther", "motherIncome",
	"guardianName", "guardianEducation", "guardianOccupation", "guardianOccupationOther", "guardianIncome",
	"kartuKeluarga", "aktaKelahiran", "ktpWalimurid", "pasFoto", "ijazah",
	model.SlotBuktiPembayaran,
	"termsAgreed", "finalAgreement",
}

// FirstErrorField mengembalikan field error pertama menurut urutan formulir
// (untuk scroll otomatis di sisi klien).
func FirstErrorField(errs map[string][]string) string {
	if len(errs) == 0 {
		return ""
	}
	for _, name := range fieldOrder {
		if _, ok := errs[name]; ok {
			return name
		}
	}
	for name := range errs {
		return name
	}
	return ""
}
