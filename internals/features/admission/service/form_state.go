package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bhumingasorofficial/psb-bhumingasor/internals/configs"
	model "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/model"
	"github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/validation"
)

/* =========================================================
   FORM STATE CONTAINER — sumber kebenaran satu sesi wizard:
   Submission, lampiran in-memory, step aktif, peta error,
   antrian toast, plus autosave draft ter-debounce.
   ========================================================= */

type Toast struct {
	Type    string `json:"type"` // info | success | warning | error
	Title   string `json:"title"`
	Message string `json:"message"`
}

type WizardSession struct {
	ID uuid.UUID

	mu          sync.Mutex
	Sub         *model.Submission
	Files       map[string]*model.Attachment
	CurrentStep int
	Errors      map[string][]string
	Resolver    *RegionResolver

	// terminal state submit (diisi orchestrator)
	State SubmitState
	RegID string

	toasts    []Toast
	drafts    DraftStore
	debounce  time.Duration
	saveTimer *time.Timer
}

// Field yang diketik angka saja; nilai >0 berarti panjang maksimal.
var digitOnlyFields = map[string]int{
	"nik":          16,
	"nisn":         10,
	"postalCode":   5,
	"height":       0,
	"weight":       0,
	"siblingCount": 0,
	"childOrder":   0,
}

/* ============ STORE ============ */

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*WizardSession

	cfg    configs.AppConfig
	drafts DraftStore
}

func NewSessionStore(cfg configs.AppConfig, drafts DraftStore) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*WizardSession),
		cfg:      cfg,
		drafts:   drafts,
	}
}

// Open membuat sesi wizard baru. Opsi provinsi diambil eager di sini;
// kegagalan langsung menjatuhkan resolver ke mode manual (non-fatal).
func (s *SessionStore) Open(ctx context.Context) *WizardSession {
	sess := &WizardSession{
		ID:          uuid.New(),
		Sub:         model.NewSubmission(),
		Files:       make(map[string]*model.Attachment),
		CurrentStep: 1,
		Errors:      map[string][]string{},
		Resolver:    NewRegionResolver(s.cfg.WilayahAPIBase, nil),
		State:       StateIdle,
		drafts:      s.drafts,
		debounce:    s.cfg.AutosaveDebounce,
	}
	sess.Resolver.Start(ctx)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *SessionStore) Get(id uuid.UUID) (*WizardSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

/* ============ MUTASI FIELD ============ */

// SetField menormalkan input lalu menyimpannya, dan menjadwalkan autosave.
func (w *WizardSession) SetField(name, value string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	ok := w.Sub.SetField(name, normalizeInput(name, value))
	if ok {
		w.scheduleAutosaveLocked()
	}
	return ok
}

// SetInfoSource mengganti daftar sumber informasi secara utuh.
func (w *WizardSession) SetInfoSource(list []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.Sub.InfoSource = append([]string(nil), list...)
	w.scheduleAutosaveLocked()
}

// Seed memutasi Submission di bawah lock sesi — dipakai saat pembukaan
// sesi (hasil login / NIK pemulihan) dan saat resolver wilayah menulis
// nama wilayah terpilih.
func (w *WizardSession) Seed(fn func(*model.Submission)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.Sub)
}

// SetBoolField menulis flag (hasGuardian / persetujuan).
func (w *WizardSession) SetBoolField(name string, value bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	ok := w.Sub.SetBoolField(name, value)
	if ok {
		w.scheduleAutosaveLocked()
	}
	return ok
}

// OnBlur men-trim nilai, lalu menjalankan validasi satu field dan
// memperbarui entri error field itu saja.
func (w *WizardSession) OnBlur(name, value string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	trimmed := strings.TrimSpace(normalizeInput(name, value))
	w.Sub.SetField(name, trimmed)

	// "pekerjaan lainnya" yang masih kosong jangan diganggu saat blur;
	// kewajibannya baru dicek di validasi utuh
	if strings.Contains(name, "OccupationOther") && trimmed == "" {
		return ""
	}

	msg := validation.ValidateField(name, trimmed)
	if msg == "" {
		delete(w.Errors, name)
	} else {
		w.Errors[name] = []string{msg}
	}
	w.scheduleAutosaveLocked()
	return msg
}

/* ============ NAVIGASI STEP ============ */

// NextStep memvalidasi step aktif; lolos = maju, gagal = tolak + error.
func (w *WizardSession) NextStep() validation.StepResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	res := validation.ValidateStep(w.CurrentStep, w.Sub, w.Files)
	if res.Success {
		if w.CurrentStep < 4 {
			w.CurrentStep++
		}
		w.Errors = map[string][]string{}
	} else {
		w.Errors = res.Errors
		w.addToastLocked(Toast{Type: "warning", Title: "Periksa Data", Message: "Masih ada data yang belum lengkap."})
	}
	w.scheduleAutosaveLocked()
	return res
}

func (w *WizardSession) PrevStep() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.CurrentStep > 1 {
		w.CurrentStep--
	}
	return w.CurrentStep
}

// TouchAutosave menjadwalkan autosave setelah mutasi di luar SetField
// (mis. resolver wilayah menulis langsung ke Submission).
func (w *WizardSession) TouchAutosave() {
	w.mu.Lock()
	w.scheduleAutosaveLocked()
	w.mu.Unlock()
}

/* ============ LAMPIRAN ============ */

// PutFile memvalidasi berkas saat dipilih. Berkas yang gagal cek
// (kebesaran / format salah) ditolak dan slotnya dibiarkan kosong
// supaya file basi tidak diam-diam tersimpan.
func (w *WizardSession) PutFile(slot string, att *model.Attachment) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if msg := validation.CheckAttachment(slot, att); msg != "" {
		delete(w.Files, slot)
		return msg
	}
	w.Files[slot] = att
	delete(w.Errors, slot)
	return ""
}

func (w *WizardSession) ClearFile(slot string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.Files, slot)
}

/* ============ TOAST ============ */

func (w *WizardSession) AddToast(t Toast) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.addToastLocked(t)
}

func (w *WizardSession) addToastLocked(t Toast) {
	w.toasts = append(w.toasts, t)
}

// DrainToasts mengambil dan mengosongkan antrian toast.
func (w *WizardSession) DrainToasts() []Toast {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.toasts
	w.toasts = nil
	return out
}

/* ============ AKSES AMAN LINTAS GOROUTINE ============ */

// SubmissionCopy mengembalikan salinan Submission untuk respons JSON,
// supaya serialisasi tidak membaca state yang sedang dimutasi request lain.
func (w *WizardSession) SubmissionCopy() *model.Submission {
	w.mu.Lock()
	defer w.mu.Unlock()
	sub := *w.Sub
	return &sub
}

// StepNumber mengembalikan step aktif di bawah lock.
func (w *WizardSession) StepNumber() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.CurrentStep
}

// Terminal mengembalikan state submit terakhir beserta nomor registrasi.
func (w *WizardSession) Terminal() (SubmitState, string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.State, w.RegID
}

// snapshotState menyalin Submission + peta lampiran dalam satu ambilan
// lock. Validasi dan encoding berjalan lama, jadi orchestrator bekerja
// di atas salinan ini — bukan state hidup yang masih bisa dimutasi
// request lain di sesi yang sama.
func (w *WizardSession) snapshotState() (*model.Submission, map[string]*model.Attachment) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sub := *w.Sub
	files := make(map[string]*model.Attachment, len(w.Files))
	for slot, att := range w.Files {
		files[slot] = att
	}
	return &sub, files
}

/* ============ DRAFT ============ */

// RestoreDraft memuat draft tersimpan milik NIK sesi ini (bila ada) dan
// menimpanya ke Submission baru. Lampiran tidak bisa direhidrasi;
// persetujuan di-reset oleh MergeSnapshot.
func (w *WizardSession) RestoreDraft() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.drafts == nil || w.Sub.NIK == "" {
		return
	}
	row, err := w.drafts.Load(w.Sub.NIK)
	if err != nil {
		log.Printf("⚠️ Gagal memuat draft NIK %s: %v", w.Sub.NIK, err)
		return
	}
	if row == nil {
		return
	}
	if err := w.Sub.MergeSnapshot(row.AdmissionDraftSnapshot); err != nil {
		log.Printf("⚠️ Draft NIK %s rusak, mulai dari kosong: %v", w.Sub.NIK, err)
		return
	}
	w.Files = make(map[string]*model.Attachment)
	if row.AdmissionDraftStep >= 1 && row.AdmissionDraftStep <= 4 {
		w.CurrentStep = row.AdmissionDraftStep
	}
	w.addToastLocked(Toast{Type: "info", Title: "Auto-Save Dimuat", Message: "Data terakhir Anda telah dipulihkan."})
}

// scheduleAutosaveLocked menunda simpan draft sampai input berhenti
// sebentar (debounce), lalu menulis snapshot tersanitasi.
func (w *WizardSession) scheduleAutosaveLocked() {
	if w.drafts == nil || w.Sub.NIK == "" {
		return
	}
	if w.saveTimer != nil {
		w.saveTimer.Stop()
	}
	w.saveTimer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		nik := w.Sub.NIK
		step := w.CurrentStep
		snapshot, err := w.Sub.Snapshot()
		w.mu.Unlock()
		if err != nil {
			log.Printf("⚠️ Gagal serialisasi draft NIK %s: %v", nik, err)
			return
		}
		if err := w.drafts.Save(nik, snapshot, step); err != nil {
			log.Printf("⚠️ Autosave draft NIK %s gagal: %v", nik, err)
		}
	})
}

/* ============ NORMALISASI INPUT ============ */

func normalizeInput(name, value string) string {
	if maxLen, ok := digitOnlyFields[name]; ok {
		return stripNonDigits(value, maxLen)
	}
	if name == "parentWaNumber" {
		return stripPhone(value)
	}
	return value
}

func stripNonDigits(s string, maxLen int) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if maxLen > 0 && len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}

// stripPhone menyisakan digit dan satu '+' di depan saja.
func stripPhone(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
