package model

/* =========================================================
   LAMPIRAN — slot berkas yang dipilih user. Isi file hanya
   hidup di memori sesi; draft tidak pernah menyimpannya.
   ========================================================= */

type AttachmentCategory int

const (
	CategoryDocument AttachmentCategory = iota // KK, akta, KTP, ijazah (boleh PDF)
	CategoryPhoto                              // pas foto & bukti pembayaran (hanya gambar)
)

// Slot lampiran formulir lengkap, urutan tetap — dipakai saat encoding
// dan saat menyusun payload (slot kosong tetap dikirim sebagai string kosong).
var FullFormSlots = []string{
	"kartuKeluarga",
	"aktaKelahiran",
	"ktpWalimurid",
	"pasFoto",
	"ijazah",
}

// Slot pendaftaran awal
const SlotBuktiPembayaran = "buktiPembayaran"

// SlotCategory memetakan slot ke kategorinya.
func SlotCategory(slot string) AttachmentCategory {
	switch slot {
	case "pasFoto", SlotBuktiPembayaran:
		return CategoryPhoto
	default:
		return CategoryDocument
	}
}

func IsKnownSlot(slot string) bool {
	if slot == SlotBuktiPembayaran {
		return true
	}
	return InList(FullFormSlots, slot)
}

type Attachment struct {
	Filename string
	Mime     string
	Size     int64
	Data     []byte
}
