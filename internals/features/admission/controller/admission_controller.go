package controller

import (
	"io"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/bhumingasorofficial/psb-bhumingasor/internals/configs"
	admissionDTO "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/dto"
	model "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/model"
	service "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/service"
	"github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/validation"
	helper "github.com/bhumingasorofficial/psb-bhumingasor/internals/helpers"
)

var validate = validator.New()

type AdmissionController struct {
	Store  *service.SessionStore
	Orch   *service.Orchestrator
	Sheet  *service.SheetClient
	Drafts *service.DraftService
	Cfg    configs.AppConfig
}

/* =========================================================
   SESI
   ========================================================= */

// POST /api/a/admission/sessions
func (h *AdmissionController) OpenSession(c *fiber.Ctx) error {
	// body kosong boleh: pendaftar baru
	var req admissionDTO.OpenSessionRequest
	_ = c.BodyParser(&req)
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	sess := h.Store.Open(c.UserContext())
	status := "new"

	if req.Token != "" {
		// login lanjut-isi lewat backend spreadsheet
		res, err := h.Sheet.Login(c.UserContext(), req.NIK, req.Token, req.WA)
		if err != nil {
			// server spreadsheet bermasalah: terima token bila cocok
			// dengan hash yang tersimpan di draft lokal
			ok, verr := h.Drafts.VerifyResumeToken(req.NIK, req.Token)
			if verr != nil || !ok {
				return helper.Error(c, fiber.StatusUnauthorized, err.Error())
			}
			sess.Seed(func(sub *model.Submission) { sub.NIK = req.NIK })
			sess.RestoreDraft()
			status = "resumed"
		} else {
			nik := req.NIK
			sess.Seed(func(sub *model.Submission) {
				seedFromLogin(sub, res.Data)
				if sub.NIK == "" {
					sub.NIK = req.NIK
				}
				nik = sub.NIK
			})
			if res.Status == "complete" {
				status = "complete"
			} else {
				status = "resumed"
				sess.RestoreDraft()
				// token sudah diverifikasi server; simpan hash-nya
				// supaya login berikutnya tetap bisa saat server down
				if err := h.Drafts.SetResumeToken(nik, req.Token); err != nil {
					log.Printf("⚠️ Gagal simpan hash token NIK %s: %v", nik, err)
				}
			}
		}
	} else if req.NIK != "" {
		sess.Seed(func(sub *model.Submission) { sub.NIK = req.NIK })
		sess.RestoreDraft()
		status = "resumed"
	}

	token, err := helper.CreateSessionToken(configs.JWTSecret, sess.ID, 24*time.Hour)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat token sesi")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Sesi dibuka", admissionDTO.SessionResponse{
		SessionID:    sess.ID.String(),
		SessionToken: token,
		Status:       status,
		CurrentStep:  sess.StepNumber(),
		Submission:   sess.SubmissionCopy(),
		ManualRegion: sess.Resolver.Manual(),
		Toasts:       sess.DrainToasts(),
	})
}

// sessionFromCtx mengambil sesi dari token Bearer/cookie.
func (h *AdmissionController) sessionFromCtx(c *fiber.Ctx) (*service.WizardSession, error) {
	raw := helper.GetRawAccessToken(c)
	if raw == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Token sesi tidak ditemukan")
	}
	id, err := helper.ParseSessionToken(configs.JWTSecret, raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Token sesi tidak valid")
	}
	sess, ok := h.Store.Get(id)
	if !ok {
		return nil, fiber.NewError(fiber.StatusGone, "Sesi sudah berakhir, silakan buka ulang")
	}
	return sess, nil
}

/* =========================================================
   MUTASI FIELD & NAVIGASI
   ========================================================= */

// PATCH /api/a/admission/sessions/field
func (h *AdmissionController) SetField(c *fiber.Ctx) error {
	sess, err := h.sessionFromCtx(c)
	if err != nil {
		return err
	}

	var req admissionDTO.SetFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	switch {
	case req.Name == "infoSource":
		sess.SetInfoSource(req.List)
	case req.Checked != nil:
		if !sess.SetBoolField(req.Name, *req.Checked) {
			return fiber.NewError(fiber.StatusBadRequest, "Field tidak dikenal: "+req.Name)
		}
	default:
		if !sess.SetField(req.Name, req.Value) {
			return fiber.NewError(fiber.StatusBadRequest, "Field tidak dikenal: "+req.Name)
		}
	}

	return helper.Success(c, "Tersimpan", fiber.Map{"submission": sess.SubmissionCopy()})
}

// POST /api/a/admission/sessions/blur
func (h *AdmissionController) Blur(c *fiber.Ctx) error {
	sess, err := h.sessionFromCtx(c)
	if err != nil {
		return err
	}

	var req admissionDTO.BlurRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	msg := sess.OnBlur(req.Name, req.Value)
	return helper.Success(c, "OK", fiber.Map{"field": req.Name, "error": msg})
}

// POST /api/a/admission/sessions/step
func (h *AdmissionController) Step(c *fiber.Ctx) error {
	sess, err := h.sessionFromCtx(c)
	if err != nil {
		return err
	}

	var req admissionDTO.StepRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.Direction == "back" {
		return helper.Success(c, "Mundur satu step", fiber.Map{"currentStep": sess.PrevStep()})
	}

	res := sess.NextStep()
	if !res.Success {
		return helper.FieldErrors(c, "Masih ada data yang belum lengkap.", res.Errors, validation.FirstErrorField(res.Errors))
	}
	return helper.Success(c, "Lanjut", fiber.Map{
		"currentStep": sess.StepNumber(),
		"toasts":      sess.DrainToasts(),
	})
}

/* =========================================================
   WILAYAH (CASCADE)
   ========================================================= */

// GET /api/a/admission/regions/options?level=0&q=
func (h *AdmissionController) RegionOptions(c *fiber.Ctx) error {
	sess, err := h.sessionFromCtx(c)
	if err != nil {
		return err
	}

	level := c.QueryInt("level", 0)
	return helper.Success(c, "OK", admissionDTO.RegionOptionsResponse{
		Level:   level,
		Manual:  sess.Resolver.Manual(),
		Options: sess.Resolver.Options(level, c.Query("q")),
	})
}

// POST /api/a/admission/regions/select
func (h *AdmissionController) RegionSelect(c *fiber.Ctx) error {
	sess, err := h.sessionFromCtx(c)
	if err != nil {
		return err
	}

	var req admissionDTO.RegionSelectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	// resolver menulis nama wilayah langsung ke Submission, jadi seluruh
	// pemilihan berjalan di bawah lock sesi lewat Seed
	wasManual := sess.Resolver.Manual()
	var selErr error
	sess.Seed(func(sub *model.Submission) {
		if wasManual {
			selErr = sess.Resolver.SetManual(sub, req.Level, req.Value)
		} else {
			selErr = sess.Resolver.Select(c.UserContext(), sub, req.Level, req.ID)
		}
	})
	if selErr != nil {
		return fiber.NewError(fiber.StatusBadRequest, selErr.Error())
	}
	sess.TouchAutosave()

	// beri tahu sekali saja saat lookup baru saja tumbang
	if !wasManual && sess.Resolver.Manual() {
		sess.AddToast(service.Toast{Type: "info", Title: "Mode Manual",
			Message: "Daftar wilayah tidak tersedia, silakan ketik alamat secara manual."})
	}

	return helper.Success(c, "Wilayah tersimpan", fiber.Map{
		"submission": sess.SubmissionCopy(),
		"manual":     sess.Resolver.Manual(),
		"toasts":     sess.DrainToasts(),
	})
}

/* =========================================================
   BERKAS
   ========================================================= */

// PUT /api/a/admission/sessions/files/:slot
func (h *AdmissionController) UploadFile(c *fiber.Ctx) error {
	sess, err := h.sessionFromCtx(c)
	if err != nil {
		return err
	}

	slot := c.Params("slot")
	if !model.IsKnownSlot(slot) {
		return fiber.NewError(fiber.StatusBadRequest, "Slot berkas tidak dikenal: "+slot)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan di form")
	}

	src, err := fh.Open()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuka file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membaca file")
	}

	att := &model.Attachment{
		Filename: fh.Filename,
		Mime:     strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type"))),
		Size:     fh.Size,
		Data:     data,
	}

	// tolak di saat pemilihan — slot dibiarkan kosong, file basi tidak tersimpan
	if msg := sess.PutFile(slot, att); msg != "" {
		return helper.ErrorWithDetails(c, fiber.StatusBadRequest, msg, fiber.Map{slot: []string{msg}})
	}

	return helper.Success(c, "Berkas diterima", fiber.Map{"slot": slot, "size": att.Size, "mime": att.Mime})
}

// DELETE /api/a/admission/sessions/files/:slot
func (h *AdmissionController) ClearFile(c *fiber.Ctx) error {
	sess, err := h.sessionFromCtx(c)
	if err != nil {
		return err
	}
	slot := c.Params("slot")
	if !model.IsKnownSlot(slot) {
		return fiber.NewError(fiber.StatusBadRequest, "Slot berkas tidak dikenal: "+slot)
	}
	sess.ClearFile(slot)
	return helper.Success(c, "Berkas dihapus", fiber.Map{"slot": slot})
}

/* =========================================================
   SUBMIT
   ========================================================= */

// POST /api/a/admission/register — pendaftaran awal
func (h *AdmissionController) Register(c *fiber.Ctx) error {
	sess, err := h.sessionFromCtx(c)
	if err != nil {
		return err
	}

	var req admissionDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}

	// honeypot: field tersembunyi terisi = bot, jawab sukses tanpa kirim
	if strings.TrimSpace(req.BotField) != "" {
		return helper.Success(c, "Pendaftaran diterima", service.SubmitResult{State: service.StateSuccess})
	}

	result := h.Orch.Register(c.UserContext(), sess, req.CaptchaToken)
	return h.renderSubmitResult(c, sess, result)
}

// POST /api/a/admission/submit — formulir lengkap
func (h *AdmissionController) SubmitFull(c *fiber.Ctx) error {
	sess, err := h.sessionFromCtx(c)
	if err != nil {
		return err
	}
	result := h.Orch.SubmitFull(c.UserContext(), sess)
	return h.renderSubmitResult(c, sess, result)
}

func (h *AdmissionController) renderSubmitResult(c *fiber.Ctx, sess *service.WizardSession, result service.SubmitResult) error {
	switch result.State {
	case service.StateSuccess:
		return helper.Success(c, "Data berhasil disimpan", fiber.Map{
			"state":   result.State,
			"regId":   result.RegID,
			"receipt": admissionDTO.NewReceiptResponse(sess.SubmissionCopy(), result.RegID, h.Cfg.WAHelpNumber),
		})
	case service.StateError:
		// layar error terminal yang bisa ditutup untuk kembali ke idle
		return helper.Error(c, fiber.StatusBadGateway, result.Message)
	default:
		if len(result.Errors) > 0 {
			return helper.FieldErrors(c, result.Message, result.Errors, result.FirstField)
		}
		return helper.Error(c, fiber.StatusBadRequest, result.Message)
	}
}

/* =========================================================
   LAIN-LAIN
   ========================================================= */

// GET /api/a/admission/config
func (h *AdmissionController) GetConfig(c *fiber.Ctx) error {
	cfg := h.Sheet.FetchConfig(c.UserContext())
	return helper.Success(c, "OK", cfg)
}

// GET /api/a/admission/receipt
func (h *AdmissionController) Receipt(c *fiber.Ctx) error {
	sess, err := h.sessionFromCtx(c)
	if err != nil {
		return err
	}
	state, regID := sess.Terminal()
	if state != service.StateSuccess {
		return helper.Error(c, fiber.StatusConflict, "Bukti pendaftaran baru tersedia setelah data terkirim")
	}
	return helper.Success(c, "OK", admissionDTO.NewReceiptResponse(sess.SubmissionCopy(), regID, h.Cfg.WAHelpNumber))
}

// GET /api/a/admission/sessions/toasts
func (h *AdmissionController) Toasts(c *fiber.Ctx) error {
	sess, err := h.sessionFromCtx(c)
	if err != nil {
		return err
	}
	return helper.Success(c, "OK", fiber.Map{"toasts": sess.DrainToasts()})
}

// seedFromLogin menyalin data login parsial dari backend spreadsheet.
func seedFromLogin(sub *model.Submission, data map[string]interface{}) {
	str := func(key string) string {
		if v, ok := data[key].(string); ok {
			return v
		}
		return ""
	}
	if v := str("regId"); v != "" {
		sub.RegID = v
	}
	if v := str("fullName"); v != "" {
		sub.FullName = v
	}
	if v := str("nik"); v != "" {
		sub.NIK = v
	}
	if v := str("gender"); v != "" {
		sub.Gender = v
	}
	if v := str("parentWaNumber"); v != "" {
		sub.ParentWaNumber = v
	}
	if v := str("infoSource"); v != "" {
		sub.InfoSource = strings.Split(v, ", ")
	}
}
