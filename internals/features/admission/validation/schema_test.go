package validation

import (
	"testing"

	model "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/model"
)

// submission lengkap & valid untuk jenjang SMP (default formulir)
func validSubmission() *model.Submission {
	sub := model.NewSubmission()
	sub.FullName = "Ahmad Fauzi"
	sub.NIK = "3515126704990001"
	sub.NISN = "0051234567"
	sub.BirthPlace = "Sidoarjo"
	sub.BirthDate = "2012-04-27"
	sub.PreviousSchool = "SDN Ngasor 1"
	sub.Province = "Jawa Timur"
	sub.City = "Kab. Sidoarjo"
	sub.District = "Tulangan"
	sub.Village = "Kepadangan"
	sub.SpecificAddress = "Dusun Ngasor RT 04"
	sub.RT = "04"
	sub.RW = "02"
	sub.PostalCode = "61273"
	sub.ParentWaNumber = "081234567890"
	sub.Height = "150"
	sub.Weight = "40"
	sub.SiblingCount = "2"
	sub.ChildOrder = "1"
	sub.FatherName = "Budi Santoso"
	sub.MotherName = "Siti Aminah"
	sub.FinalAgreement = true
	return sub
}

func validFiles() map[string]*model.Attachment {
	files := map[string]*model.Attachment{}
	for _, slot := range model.FullFormSlots {
		files[slot] = &model.Attachment{
			Filename: slot + ".jpg",
			Mime:     "image/jpeg",
			Size:     1024,
			Data:     []byte("x"),
		}
	}
	return files
}

func TestValidateFieldNIK(t *testing.T) {
	if msg := ValidateField("nik", "12345"); msg != "NIK harus 16 digit angka" {
		t.Fatalf("NIK pendek harus ditolak, dapat %q", msg)
	}
	if msg := ValidateField("nik", "3515126704990001"); msg != "" {
		t.Fatalf("NIK 16 digit harus lolos, dapat %q", msg)
	}
	if msg := ValidateField("nik", "35151267049900ab"); msg == "" {
		t.Fatal("NIK dengan huruf harus ditolak")
	}
}

func TestValidateFieldWA(t *testing.T) {
	for _, ok := range []string{"081234567890", "6281234567890", "+6281234567890"} {
		if msg := ValidateField("parentWaNumber", ok); msg != "" {
			t.Errorf("nomor %q harus lolos, dapat %q", ok, msg)
		}
	}
	for _, bad := range []string{"0712345678", "0812345", "abc"} {
		if msg := ValidateField("parentWaNumber", bad); msg == "" {
			t.Errorf("nomor %q harus ditolak", bad)
		}
	}
}

func TestValidateFieldEnum(t *testing.T) {
	if msg := ValidateField("gender", "Laki-laki"); msg != "" {
		t.Fatalf("gender valid ditolak: %q", msg)
	}
	if msg := ValidateField("gender", "lainnya"); msg == "" {
		t.Fatal("gender di luar daftar harus ditolak")
	}
	// field tanpa aturan dasar selalu lolos saat blur
	if msg := ValidateField("smkMajor", ""); msg != "" {
		t.Fatalf("smkMajor kosong saat blur harus netral, dapat %q", msg)
	}
}

func TestValidateFullFormValid(t *testing.T) {
	errs := Validate(validSubmission(), validFiles())
	if len(errs) != 0 {
		t.Fatalf("submission valid tidak boleh punya error, dapat %v", errs)
	}
}

func TestValidateSMKRequiresMajor(t *testing.T) {
	sub := validSubmission()
	sub.SchoolChoice = model.SchoolLevelSMK
	sub.SmkMajor = ""

	errs := Validate(sub, validFiles())
	if len(errs["smkMajor"]) == 0 {
		t.Fatal("SMK tanpa jurusan harus error di smkMajor")
	}

	sub.SmkMajor = model.SmkMajors[0]
	errs = Validate(sub, validFiles())
	if len(errs["smkMajor"]) != 0 {
		t.Fatalf("jurusan terisi tapi masih error: %v", errs["smkMajor"])
	}
}

func TestValidateNISNByLevel(t *testing.T) {
	sub := validSubmission()
	sub.NISN = ""

	errs := Validate(sub, validFiles())
	if len(errs["nisn"]) == 0 {
		t.Fatal("SMP tanpa NISN harus error")
	}

	// MI tidak mewajibkan NISN
	sub.SchoolChoice = model.SchoolLevelMI
	errs = Validate(sub, validFiles())
	if len(errs["nisn"]) != 0 {
		t.Fatalf("MI tanpa NISN harus lolos, dapat %v", errs["nisn"])
	}
}

func TestValidateGuardianFields(t *testing.T) {
	sub := validSubmission()
	sub.HasGuardian = true

	errs := Validate(sub, validFiles())
	for _, field := range []string{"guardianName", "guardianEducation", "guardianOccupation", "guardianIncome"} {
		if len(errs[field]) == 0 {
			t.Errorf("wali aktif tapi %s kosong tidak error", field)
		}
	}

	sub.GuardianName = "Pak De Karno"
	sub.GuardianEducation = "SMA / Sederajat"
	sub.GuardianOccupation = model.OccupationOther
	sub.GuardianIncome = "Tidak Berpenghasilan"
	errs = Validate(sub, validFiles())
	if len(errs["guardianOccupationOther"]) == 0 {
		t.Fatal("pekerjaan wali Lainnya... tanpa detail harus error")
	}

	sub.GuardianOccupationOther = "Penjaga tambak"
	errs = Validate(sub, validFiles())
	if len(errs) != 0 {
		t.Fatalf("data wali lengkap tapi masih error: %v", errs)
	}
}

func TestValidateOccupationOther(t *testing.T) {
	sub := validSubmission()
	sub.FatherOccupation = model.OccupationOther

	errs := Validate(sub, validFiles())
	if len(errs["fatherOccupationOther"]) == 0 {
		t.Fatal("pekerjaan ayah Lainnya... tanpa detail harus error")
	}
}

func TestValidateFinalAgreement(t *testing.T) {
	sub := validSubmission()
	sub.FinalAgreement = false

	errs := Validate(sub, validFiles())
	if len(errs["finalAgreement"]) == 0 {
		t.Fatal("tanpa persetujuan akhir harus error")
	}
}

func TestCheckAttachment(t *testing.T) {
	if msg := CheckAttachment("kartuKeluarga", nil); msg != "File Kartu Keluarga wajib diunggah" {
		t.Fatalf("slot kosong: %q", msg)
	}

	big := &model.Attachment{Mime: "image/jpeg", Size: MaxFileSize + 1, Data: []byte("x")}
	if msg := CheckAttachment("kartuKeluarga", big); msg != "Ukuran file maksimal 2MB." {
		t.Fatalf("file kebesaran: %q", msg)
	}

	// pas foto = kategori foto, PDF ditolak
	pdf := &model.Attachment{Mime: "application/pdf", Size: 100, Data: []byte("x")}
	if msg := CheckAttachment("pasFoto", pdf); msg == "" {
		t.Fatal("PDF untuk pas foto harus ditolak")
	}
	// dokumen menerima PDF
	if msg := CheckAttachment("ijazah", pdf); msg != "" {
		t.Fatalf("PDF untuk ijazah harus lolos, dapat %q", msg)
	}
}

func TestFirstErrorField(t *testing.T) {
	errs := map[string][]string{
		"fatherName": {"Nama ayah wajib diisi"},
		"fullName":   {"Nama lengkap wajib diisi"},
		"pasFoto":    {"Pas Foto wajib diunggah"},
	}
	if got := FirstErrorField(errs); got != "fullName" {
		t.Fatalf("field pertama menurut urutan formulir harus fullName, dapat %q", got)
	}
	if got := FirstErrorField(nil); got != "" {
		t.Fatalf("tanpa error harus kosong, dapat %q", got)
	}
}

func TestValidateRegistration(t *testing.T) {
	sub := model.NewSubmission()
	proof := &model.Attachment{Mime: "image/jpeg", Size: 1024, Data: []byte("x")}

	errs := ValidateRegistration(sub, proof)
	for _, field := range []string{"infoSource", "fullName", "nik", "termsAgreed"} {
		if len(errs[field]) == 0 {
			t.Errorf("pendaftaran kosong harus error di %s", field)
		}
	}

	sub.InfoSource = []string{"Media Sosial"}
	sub.FullName = "Ahmad Fauzi"
	sub.NIK = "3515126704990001"
	sub.ParentWaNumber = "081234567890"
	sub.TermsAgreed = true
	errs = ValidateRegistration(sub, proof)
	if len(errs) != 0 {
		t.Fatalf("pendaftaran lengkap tapi masih error: %v", errs)
	}
}
