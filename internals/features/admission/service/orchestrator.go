package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bhumingasorofficial/psb-bhumingasor/internals/configs"
	model "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/model"
	"github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/validation"
)

/* =========================================================
   SUBMISSION ORCHESTRATOR
   idle → validating → encoding → sending → success | error
   Gagal validasi tidak pernah di-retry; gagal transport
   di-retry terbatas. Draft baru dihapus setelah sukses.
   ========================================================= */

type SubmitState string

const (
	StateIdle       SubmitState = "idle"
	StateValidating SubmitState = "validating"
	StateEncoding   SubmitState = "encoding"
	StateSending    SubmitState = "sending"
	StateSuccess    SubmitState = "success"
	StateError      SubmitState = "error"
)

type SubmitResult struct {
	State      SubmitState         `json:"state"`
	RegID      string              `json:"regId,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	FirstField string              `json:"firstField,omitempty"`
	Message    string              `json:"message,omitempty"`
}

/* ============ KLIEN ENDPOINT SPREADSHEET ============ */

type NIKStatus string

const (
	NIKAvailable NIKStatus = "available"
	NIKExists    NIKStatus = "exists"
	NIKUnknown   NIKStatus = "unknown"
)

type ServerConfig struct {
	ActiveWave int `json:"activeWave"`
}

type LoginResult struct {
	Status string                 `json:"status"` // "complete" | "partial"
	Data   map[string]interface{} `json:"data"`
}

// SheetClient membungkus endpoint Google Apps Script.
// Endpoint-nya fire-and-forget untuk POST: body respons tidak bisa
// diandalkan, jadi sukses kirim hanya berarti "request diterima jaringan".
type SheetClient struct {
	endpoint string
	client   *http.Client
}

func NewSheetClient(endpoint string, client *http.Client) *SheetClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &SheetClient{endpoint: endpoint, client: client}
}

// CheckNIK menanyakan apakah NIK sudah terdaftar. Respons yang tidak
// jelas atau endpoint tak terjangkau dianggap "unknown, lanjut saja" —
// pendaftar tidak boleh terjebak gara-gara pengecekan ini.
func (s *SheetClient) CheckNIK(ctx context.Context, nik string) NIKStatus {
	body, err := s.get(ctx, url.Values{"action": {"CHECK_NIK"}, "nik": {nik}})
	if err != nil {
		return NIKUnknown
	}
	var out struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return NIKUnknown
	}
	if out.Result == "exists" {
		return NIKExists
	}
	return NIKAvailable
}

// FetchConfig mengambil konfigurasi server (gelombang aktif).
// Gagal = pakai default, bukan error.
func (s *SheetClient) FetchConfig(ctx context.Context) ServerConfig {
	def := ServerConfig{ActiveWave: 1}
	body, err := s.get(ctx, url.Values{"action": {"GET_CONFIG"}})
	if err != nil {
		log.Printf("⚠️ Gagal ambil konfigurasi server, pakai default: %v", err)
		return def
	}
	var out struct {
		Result string       `json:"result"`
		Config ServerConfig `json:"config"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Result != "success" {
		return def
	}
	if out.Config.ActiveWave == 0 {
		out.Config.ActiveWave = 1
	}
	return out.Config
}

// Login memverifikasi NIK + token lanjut-isi (+ nomor WA sebagai
// parameter keamanan tambahan) ke backend spreadsheet.
func (s *SheetClient) Login(ctx context.Context, nik, token, wa string) (*LoginResult, error) {
	body, err := s.get(ctx, url.Values{
		"action": {"LOGIN"},
		"nik":    {strings.TrimSpace(nik)},
		"token":  {strings.TrimSpace(token)},
		"wa":     {strings.TrimSpace(wa)},
	})
	if err != nil {
		return nil, fmt.Errorf("gagal terhubung ke server login: %w", err)
	}
	var out struct {
		Result  string                 `json:"result"`
		Status  string                 `json:"status"`
		Data    map[string]interface{} `json:"data"`
		Message string                 `json:"message"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("respons login tidak valid: %w", err)
	}
	if out.Result != "success" {
		msg := out.Message
		if msg == "" {
			msg = "Login Gagal"
		}
		return nil, fmt.Errorf("%s", msg)
	}
	return &LoginResult{Status: out.Status, Data: out.Data}, nil
}

// Post mengirim satu payload JSON. Content-Type text/plain mengikuti
// kebiasaan endpoint Apps Script (menghindari preflight di asal muasalnya).
func (s *SheetClient) Post(ctx context.Context, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("gagal serialisasi payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gagal membuat request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("gagal mengirim data: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("endpoint menolak dengan status %d", resp.StatusCode)
	}
	return nil
}

func (s *SheetClient) get(ctx context.Context, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

/* ============ ORCHESTRATOR ============ */

type Orchestrator struct {
	cfg      configs.AppConfig
	sheet    *SheetClient
	pipeline *AttachmentPipeline
	drafts   DraftStore

	sleep func(time.Duration) // injectable untuk test
}

func NewOrchestrator(cfg configs.AppConfig, sheet *SheetClient, pipeline *AttachmentPipeline, drafts DraftStore) *Orchestrator {
	return &Orchestrator{cfg: cfg, sheet: sheet, pipeline: pipeline, drafts: drafts, sleep: time.Sleep}
}

// SubmitFull menjalankan transisi terminal formulir lengkap. Seluruh
// fase bekerja di atas salinan state sesi; request lain (upload ulang
// berkas, ketikan field) tidak pernah berbagi map/struct dengan fase
// encoding yang berjalan lama.
func (o *Orchestrator) SubmitFull(ctx context.Context, sess *WizardSession) SubmitResult {
	sess.setState(StateValidating)
	sub, files := sess.snapshotState()

	errs := validation.Validate(sub, files)
	if len(errs) > 0 {
		sess.setState(StateIdle)
		sess.setErrors(errs)
		return SubmitResult{
			State:      StateIdle,
			Errors:     errs,
			FirstField: validation.FirstErrorField(errs),
			Message:    "Masih ada data yang belum lengkap.",
		}
	}

	sess.setState(StateEncoding)
	if sub.RegID == "" {
		sub.RegID = generateRegID()
	}

	payload := buildFullPayload(sub)
	encoded, err := o.pipeline.EncodeSlots(files, func(slot string) {
		sess.AddToast(Toast{Type: "info", Title: "Memproses Berkas", Message: "Sedang mengompresi " + slot + "..."})
	})
	if err != nil {
		sess.setState(StateError)
		return SubmitResult{State: StateError, Message: "Gagal memproses berkas: " + err.Error()}
	}
	for k, v := range encoded {
		payload[k] = v
	}

	sess.setState(StateSending)
	if err := o.postWithRetry(ctx, payload); err != nil {
		// draft sengaja TIDAK dihapus — user bisa coba lagi
		sess.setState(StateError)
		return SubmitResult{State: StateError, Message: "Gagal menghubungi server setelah beberapa percobaan."}
	}

	// Endpoint tidak mengembalikan respons yang bisa dibaca; beri waktu
	// backend memproses sebelum user diberi tahu selesai.
	o.sleep(o.cfg.SubmitSettleDelay)

	if o.drafts != nil {
		if err := o.drafts.Delete(sub.NIK); err != nil {
			log.Printf("⚠️ Gagal hapus draft NIK %s: %v", sub.NIK, err)
		}
	}

	sess.finishSuccess(sub.RegID)
	return SubmitResult{State: StateSuccess, RegID: sub.RegID}
}

// Register mengirim pendaftaran awal (tahap pertama, sebelum token).
// Seperti SubmitFull, seluruh fase bekerja di atas salinan state sesi.
func (o *Orchestrator) Register(ctx context.Context, sess *WizardSession, captchaToken string) SubmitResult {
	sess.setState(StateValidating)
	sub, files := sess.snapshotState()
	payProof := files[model.SlotBuktiPembayaran]

	errs := validation.ValidateRegistration(sub, payProof)
	if len(errs) > 0 {
		sess.setState(StateIdle)
		sess.setErrors(errs)
		return SubmitResult{
			State:      StateIdle,
			Errors:     errs,
			FirstField: validation.FirstErrorField(errs),
			Message:    "Mohon lengkapi data pendaftaran.",
		}
	}
	if captchaToken == "" {
		sess.setState(StateIdle)
		return SubmitResult{State: StateIdle, Message: "Selesaikan verifikasi captcha."}
	}

	// cek ketersediaan NIK; "unknown" tetap lanjut
	if o.sheet.CheckNIK(ctx, sub.NIK) == NIKExists {
		sess.setState(StateIdle)
		return SubmitResult{State: StateIdle, Message: "NIK sudah terdaftar. Silahkan Login."}
	}

	sess.setState(StateEncoding)
	sess.AddToast(Toast{Type: "info", Title: "Memproses", Message: "Mengompresi Bukti Pembayaran..."})
	b64, mime, err := o.pipeline.Encode(payProof, model.CategoryPhoto)
	if err != nil {
		sess.setState(StateError)
		return SubmitResult{State: StateError, Message: "Gagal memproses bukti pembayaran: " + err.Error()}
	}

	payload := map[string]interface{}{
		"action":                "REGISTER",
		"infoSource":            sub.JoinedInfoSource(),
		"fullName":              sub.FullName,
		"nik":                   sub.NIK,
		"gender":                sub.Gender,
		"parentWaNumber":        sub.ParentWaNumber,
		"buktiPembayaranBase64": b64,
		"buktiPembayaranMime":   mime,
		"turnstileToken":        captchaToken,
	}

	sess.setState(StateSending)
	if err := o.postWithRetry(ctx, payload); err != nil {
		sess.setState(StateError)
		return SubmitResult{State: StateError, Message: "Gagal menghubungi server setelah beberapa percobaan."}
	}

	o.sleep(o.cfg.SubmitSettleDelay)

	sess.finishSuccess(sub.NIK)
	return SubmitResult{State: StateSuccess, RegID: sub.NIK}
}

// postWithRetry mengirim payload dengan retry terbatas berjeda tetap.
func (o *Orchestrator) postWithRetry(ctx context.Context, payload map[string]interface{}) error {
	attempts := o.cfg.SubmitRetryCount
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = o.sheet.Post(ctx, payload); lastErr == nil {
			return nil
		}
		log.Printf("⚠️ Kirim data gagal (percobaan %d/%d): %v", i+1, attempts, lastErr)
		if i < attempts-1 {
			o.sleep(o.cfg.SubmitRetryDelay)
		}
	}
	return lastErr
}

// buildFullPayload meratakan Submission jadi satu objek JSON datar
// sesuai kolom spreadsheet; pasangan <slot>Base64/<slot>Mime
// ditambahkan oleh pipeline.
func buildFullPayload(sub *model.Submission) map[string]interface{} {
	return map[string]interface{}{
		"action":     "SUBMIT_FULL",
		"regId":      sub.RegID,
		"infoSource": sub.JoinedInfoSource(),

		"fullName":       sub.FullName,
		"nik":            sub.NIK,
		"gender":         sub.Gender,
		"nisn":           sub.NISN,
		"birthPlace":     sub.BirthPlace,
		"birthDate":      sub.BirthDate,
		"previousSchool": sub.PreviousSchool,

		"schoolChoice": sub.SchoolChoice,
		"smkMajor":     sub.SmkMajor,

		"province":        sub.Province,
		"city":            sub.City,
		"district":        sub.District,
		"village":         sub.Village,
		"specificAddress": sub.SpecificAddress,
		"rt":              sub.RT,
		"rw":              sub.RW,
		"postalCode":      sub.PostalCode,

		"parentWaNumber": sub.ParentWaNumber,

		"height":       sub.Height,
		"weight":       sub.Weight,
		"siblingCount": sub.SiblingCount,
		"childOrder":   sub.ChildOrder,

		"fatherName":            sub.FatherName,
		"fatherEducation":       sub.FatherEducation,
		"fatherOccupation":      sub.FatherOccupation,
		"fatherOccupationOther": sub.FatherOccupationOther,
		"fatherIncome":          sub.FatherIncome,

		"motherName":            sub.MotherName,
		"motherEducation":       sub.MotherEducation,
		"motherOccupation":      sub.MotherOccupation,
		"motherOccupationOther": sub.MotherOccupationOther,
		"motherIncome":          sub.MotherIncome,

		"hasGuardian":             sub.HasGuardian,
		"guardianName":            sub.GuardianName,
		"guardianEducation":       sub.GuardianEducation,
		"guardianOccupation":      sub.GuardianOccupation,
		"guardianOccupationOther": sub.GuardianOccupationOther,
		"guardianIncome":          sub.GuardianIncome,
	}
}

// generateRegID membuat nomor registrasi dari timestamp + suffix acak
// pendek untuk menekan risiko tabrakan di milidetik yang sama.
func generateRegID() string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("PSB-%d-%s", time.Now().UnixMilli(), suffix)
}

/* ============ helper state sesi (paket yang sama) ============ */

func (w *WizardSession) setState(st SubmitState) {
	w.mu.Lock()
	w.State = st
	w.mu.Unlock()
}

func (w *WizardSession) setErrors(errs map[string][]string) {
	w.mu.Lock()
	w.Errors = errs
	w.mu.Unlock()
}

func (w *WizardSession) finishSuccess(regID string) {
	w.mu.Lock()
	w.State = StateSuccess
	w.RegID = regID
	w.Sub.RegID = regID
	w.mu.Unlock()
}
