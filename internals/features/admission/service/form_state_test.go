package service

import (
	"testing"
	"time"

	model "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/model"
)

func newDraftSession(store DraftStore, debounce time.Duration) *WizardSession {
	sess := newTestSession()
	sess.drafts = store
	sess.debounce = debounce
	return sess
}

func TestSetFieldNormalizesDigits(t *testing.T) {
	sess := newTestSession()

	sess.SetField("nik", "35-1512 6704abc99000199999")
	if sess.Sub.NIK != "3515126704990001" {
		t.Errorf("NIK harus digit saja & terpotong 16, dapat %q", sess.Sub.NIK)
	}

	sess.SetField("nisn", "00512345679999")
	if sess.Sub.NISN != "0051234567" {
		t.Errorf("NISN terpotong 10, dapat %q", sess.Sub.NISN)
	}

	sess.SetField("parentWaNumber", "+62 812-3456-7890")
	if sess.Sub.ParentWaNumber != "+6281234567890" {
		t.Errorf("nomor WA: %q", sess.Sub.ParentWaNumber)
	}

	// '+' hanya boleh di depan
	sess.SetField("parentWaNumber", "0812+345+678")
	if sess.Sub.ParentWaNumber != "0812345678" {
		t.Errorf("plus di tengah harus dibuang, dapat %q", sess.Sub.ParentWaNumber)
	}

	if ok := sess.SetField("fieldNgawur", "x"); ok {
		t.Error("field tidak dikenal harus ditolak")
	}
}

func TestOnBlurSetsAndClearsError(t *testing.T) {
	sess := newTestSession()

	msg := sess.OnBlur("fullName", "   ")
	if msg == "" {
		t.Fatal("nama kosong saat blur harus error")
	}
	if len(sess.Errors["fullName"]) == 0 {
		t.Error("error harus tercatat di peta error sesi")
	}

	if msg := sess.OnBlur("fullName", "  Ahmad Fauzi  "); msg != "" {
		t.Fatalf("nama terisi harus bersih, dapat %q", msg)
	}
	if sess.Sub.FullName != "Ahmad Fauzi" {
		t.Errorf("blur harus men-trim nilai, dapat %q", sess.Sub.FullName)
	}
	if _, ok := sess.Errors["fullName"]; ok {
		t.Error("error lama harus terhapus setelah valid")
	}
}

func TestOnBlurSkipsEmptyOccupationOther(t *testing.T) {
	sess := newTestSession()
	if msg := sess.OnBlur("fatherOccupationOther", ""); msg != "" {
		t.Fatalf("detail pekerjaan kosong saat blur jangan diganggu, dapat %q", msg)
	}
}

func TestNextStepBlocksOnErrors(t *testing.T) {
	sess := newTestSession()

	res := sess.NextStep()
	if res.Success {
		t.Fatal("step 1 kosong harus gagal")
	}
	if sess.CurrentStep != 1 {
		t.Errorf("gagal validasi tidak boleh maju, step=%d", sess.CurrentStep)
	}
	if len(sess.Errors) == 0 {
		t.Error("peta error sesi harus terisi")
	}

	toasts := sess.DrainToasts()
	if len(toasts) != 1 || toasts[0].Title != "Periksa Data" {
		t.Errorf("toast peringatan: %v", toasts)
	}
	if len(sess.DrainToasts()) != 0 {
		t.Error("drain kedua harus kosong")
	}
}

func TestNextStepAdvances(t *testing.T) {
	sess := newTestSession()
	fillValidSubmission(sess.Sub)

	res := sess.NextStep()
	if !res.Success {
		t.Fatalf("data step 1 lengkap tapi gagal: %v", res.Errors)
	}
	if sess.CurrentStep != 2 {
		t.Errorf("harus maju ke step 2, dapat %d", sess.CurrentStep)
	}
	if len(sess.Errors) != 0 {
		t.Error("error harus dibersihkan saat lolos")
	}
}

func TestPrevStepFloorsAtOne(t *testing.T) {
	sess := newTestSession()
	if got := sess.PrevStep(); got != 1 {
		t.Errorf("step tidak boleh di bawah 1, dapat %d", got)
	}
}

func TestPutFileRejectsBadAttachment(t *testing.T) {
	sess := newTestSession()

	big := &model.Attachment{Mime: "image/jpeg", Size: 3 * 1024 * 1024, Data: []byte("x")}
	if msg := sess.PutFile("kartuKeluarga", big); msg == "" {
		t.Fatal("file kebesaran harus ditolak")
	}
	if _, ok := sess.Files["kartuKeluarga"]; ok {
		t.Error("file ditolak tidak boleh tersimpan di slot")
	}

	ok := &model.Attachment{Mime: "image/jpeg", Size: 1024, Data: []byte("x")}
	if msg := sess.PutFile("kartuKeluarga", ok); msg != "" {
		t.Fatalf("file valid ditolak: %q", msg)
	}
	if _, found := sess.Files["kartuKeluarga"]; !found {
		t.Error("file valid harus tersimpan")
	}

	sess.ClearFile("kartuKeluarga")
	if _, found := sess.Files["kartuKeluarga"]; found {
		t.Error("slot harus kosong setelah dihapus")
	}
}

func TestRestoreDraftMergesSnapshot(t *testing.T) {
	old := model.NewSubmission()
	fillValidSubmission(old)
	snapshot, err := old.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	store := &fakeDraftStore{}
	_ = store.Save(old.NIK, snapshot, 3)

	sess := newDraftSession(store, time.Hour)
	sess.Sub.NIK = old.NIK
	sess.RestoreDraft()

	if sess.Sub.FullName != old.FullName {
		t.Errorf("nama dari draft harus dipulihkan, dapat %q", sess.Sub.FullName)
	}
	if sess.CurrentStep != 3 {
		t.Errorf("step dari draft harus dipulihkan, dapat %d", sess.CurrentStep)
	}
	if sess.Sub.FinalAgreement {
		t.Error("persetujuan tidak boleh ikut dipulihkan")
	}
	toasts := sess.DrainToasts()
	if len(toasts) != 1 || toasts[0].Title != "Auto-Save Dimuat" {
		t.Errorf("toast pemulihan: %v", toasts)
	}
}

func TestRestoreDraftNoRowIsNoop(t *testing.T) {
	sess := newDraftSession(&fakeDraftStore{}, time.Hour)
	sess.Sub.NIK = "3515126704990001"
	sess.RestoreDraft()

	if sess.CurrentStep != 1 {
		t.Errorf("tanpa draft step harus tetap 1, dapat %d", sess.CurrentStep)
	}
	if len(sess.DrainToasts()) != 0 {
		t.Error("tanpa draft tidak boleh ada toast")
	}
}

func TestAutosaveDebouncedAfterTyping(t *testing.T) {
	store := &fakeDraftStore{}
	sess := newDraftSession(store, time.Millisecond)

	sess.SetField("nik", "3515126704990001")
	sess.SetField("fullName", "Ahmad Fauzi")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(store.saved()) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	saved := store.saved()
	if len(saved) == 0 {
		t.Fatal("autosave tidak pernah menulis draft")
	}
	if saved[0] != "3515126704990001" {
		t.Errorf("draft harus tersimpan per NIK, dapat %q", saved[0])
	}
	if row, _ := store.Load("3515126704990001"); row == nil {
		t.Error("draft tersimpan harus bisa dimuat kembali")
	}
}

func TestPutFileWrongMimeForPhoto(t *testing.T) {
	sess := newTestSession()
	pdf := &model.Attachment{Mime: "application/pdf", Size: 1024, Data: []byte("x")}
	if msg := sess.PutFile("pasFoto", pdf); msg == "" {
		t.Fatal("PDF untuk pas foto harus ditolak saat dipilih")
	}
}
