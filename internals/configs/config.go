package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	JWTSecret string
	App       AppConfig
)

// =======================
// APP CONFIG
// =======================
// Semua endpoint & angka tuning diinject lewat ENV, bukan literal di kode.
type AppConfig struct {
	// Endpoint Google Apps Script (spreadsheet PSB)
	SheetEndpointURL string
	// Base URL API wilayah (provinsi → kelurahan)
	WilayahAPIBase string
	// Nomor WA panitia (untuk link bantuan & bukti pendaftaran)
	WAHelpNumber string

	// Kirim data final
	SubmitRetryCount  int
	SubmitRetryDelay  time.Duration
	SubmitSettleDelay time.Duration // jeda setelah POST (endpoint tidak punya respons yang bisa dibaca)

	// Autosave draft
	AutosaveDebounce time.Duration

	// Batas upload berkas
	MaxUploadSize int64

	// Target kompresi gambar
	DocMaxWidth   int // dokumen identitas butuh tetap terbaca
	DocQuality    int
	PhotoMaxWidth int
	PhotoQuality  int
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}

	App = AppConfig{
		SheetEndpointURL: GetEnv("SHEET_ENDPOINT_URL"),
		WilayahAPIBase:   GetEnv("WILAYAH_API_BASE", "https://www.emsifa.com/api-wilayah-indonesia/api"),
		WAHelpNumber:     GetEnv("WA_HELP_NUMBER"),

		SubmitRetryCount:  GetEnvInt("SUBMIT_RETRY_COUNT", 3),
		SubmitRetryDelay:  GetEnvDuration("SUBMIT_RETRY_DELAY", 2*time.Second),
		SubmitSettleDelay: GetEnvDuration("SUBMIT_SETTLE_DELAY", 4*time.Second),

		AutosaveDebounce: GetEnvDuration("AUTOSAVE_DEBOUNCE", time.Second),

		MaxUploadSize: int64(GetEnvInt("MAX_UPLOAD_SIZE", 2*1024*1024)),

		DocMaxWidth:   GetEnvInt("IMAGE_DOC_MAX_W", 1600),
		DocQuality:    GetEnvInt("IMAGE_DOC_QUALITY", 85),
		PhotoMaxWidth: GetEnvInt("IMAGE_PHOTO_MAX_W", 1200),
		PhotoQuality:  GetEnvInt("IMAGE_PHOTO_QUALITY", 80),
	}

	if App.SheetEndpointURL == "" {
		log.Println("❌ SHEET_ENDPOINT_URL belum diset! Pengiriman data final akan gagal.")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	if v := GetEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	if v := GetEnv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return def
}
