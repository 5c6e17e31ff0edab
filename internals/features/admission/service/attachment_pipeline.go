package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/bhumingasorofficial/psb-bhumingasor/internals/configs"
	model "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/model"
)

/* =========================================================
   PIPELINE LAMPIRAN — file pilihan user → base64 siap kirim
   di payload JSON. Gambar dikecilkan dulu (lossy) supaya
   payload tidak bengkak; PDF lewat apa adanya.
   ========================================================= */

type AttachmentPipeline struct {
	cfg configs.AppConfig
}

func NewAttachmentPipeline(cfg configs.AppConfig) *AttachmentPipeline {
	return &AttachmentPipeline{cfg: cfg}
}

// Encode mengembalikan (base64 tanpa prefix data-URI, MIME hasil akhir).
// Dokumen identitas ditarget lebih lebar & kualitas lebih tinggi agar
// tetap terbaca; foto biasa boleh lebih kecil.
func (p *AttachmentPipeline) Encode(att *model.Attachment, cat model.AttachmentCategory) (string, string, error) {
	if att == nil || len(att.Data) == 0 {
		return "", "", fmt.Errorf("lampiran kosong")
	}

	// Non-gambar (PDF) tidak dikompresi ulang
	if att.Mime == "application/pdf" {
		return base64.StdEncoding.EncodeToString(att.Data), att.Mime, nil
	}

	img, err := decodeImage(att.Data)
	if err != nil {
		return "", "", err
	}

	maxW := p.cfg.PhotoMaxWidth
	quality := p.cfg.PhotoQuality
	if cat == model.CategoryDocument {
		maxW = p.cfg.DocMaxWidth
		quality = p.cfg.DocQuality
	}

	if img.Bounds().Dx() > maxW {
		img = imaging.Resize(img, maxW, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return "", "", fmt.Errorf("gagal encode JPEG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), "image/jpeg", nil
}

// EncodeSlots meng-encode semua slot formulir lengkap dalam urutan tetap,
// satu per satu (sengaja sekuensial supaya pesan progres per file bisa
// ditampilkan). Slot kosong tetap menyumbang string kosong di payload.
func (p *AttachmentPipeline) EncodeSlots(files map[string]*model.Attachment, progress func(slot string)) (map[string]string, error) {
	out := make(map[string]string, len(model.FullFormSlots)*2)
	for _, slot := range model.FullFormSlots {
		att := files[slot]
		if att == nil {
			out[slot+"Base64"] = ""
			out[slot+"Mime"] = ""
			continue
		}
		if progress != nil {
			progress(slot)
		}
		b64, mime, err := p.Encode(att, model.SlotCategory(slot))
		if err != nil {
			return nil, fmt.Errorf("gagal memproses %s: %w", slot, err)
		}
		out[slot+"Base64"] = b64
		out[slot+"Mime"] = mime
	}
	return out, nil
}

// decodeImage men-decode jpeg/png/webp dari []byte dengan sniff MIME.
func decodeImage(data []byte) (image.Image, error) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	if strings.Contains(ct, "webp") {
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gagal decode webp: %w", err)
		}
		return img, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("gagal decode gambar (%s): %w", ct, err)
	}
	return img, nil
}
