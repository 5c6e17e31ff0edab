package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"unicode"

	model "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/model"
)

/* =========================================================
   RESOLVER WILAYAH — cascade 4 tingkat:
   provinsi → kabupaten/kota → kecamatan → desa/kelurahan.
   Lookup eksternal mengembalikan [{id,name}]; yang disimpan
   ke Submission adalah `name` (bukan id).
   Gagal lookup = turun ke mode isi manual, bukan blokir.
   ========================================================= */

const (
	LevelProvince = iota
	LevelRegency
	LevelDistrict
	LevelVillage

	regionLevels = 4
)

// Field Submission per tingkat
var levelField = [regionLevels]string{"province", "city", "district", "village"}

type RegionOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Fase per tingkat: empty → loading → loaded → selected
type LevelPhase int

const (
	PhaseEmpty LevelPhase = iota
	PhaseLoading
	PhaseLoaded
	PhaseSelected
)

type levelState struct {
	phase    LevelPhase
	options  []RegionOption
	selected RegionOption
}

type RegionResolver struct {
	mu     sync.Mutex
	base   string
	client *http.Client

	levels [regionLevels]levelState
	manual bool // sekali gagal lookup, seluruh sisa sesi jadi isian manual
}

func NewRegionResolver(base string, client *http.Client) *RegionResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &RegionResolver{base: strings.TrimRight(base, "/"), client: client}
}

// Start mengambil daftar provinsi satu kali saat resolver dipasang.
// Gagal di sini langsung menjatuhkan semua tingkat ke mode manual.
func (r *RegionResolver) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.levels[LevelProvince].phase = PhaseLoading
	opts, err := r.fetch(ctx, LevelProvince, "")
	if err != nil {
		log.Printf("⚠️ Lookup provinsi gagal, pindah ke mode manual: %v", err)
		r.degrade()
		return
	}
	r.levels[LevelProvince] = levelState{phase: PhaseLoaded, options: opts}
}

// Select adalah satu-satunya fungsi transisi cascade:
// tulis nilai tingkat N ke Submission, kosongkan tingkat N+1..4 beserta
// cache opsinya, lalu ambil opsi tingkat N+1.
func (r *RegionResolver) Select(ctx context.Context, sub *model.Submission, level int, optionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if level < 0 || level >= regionLevels {
		return fmt.Errorf("tingkat wilayah tidak dikenal: %d", level)
	}
	if r.manual {
		return fmt.Errorf("resolver dalam mode manual, gunakan isian teks")
	}

	var chosen *RegionOption
	for i := range r.levels[level].options {
		if r.levels[level].options[i].ID == optionID {
			chosen = &r.levels[level].options[i]
			break
		}
	}
	if chosen == nil {
		return fmt.Errorf("opsi %q tidak ada di daftar tingkat %d", optionID, level)
	}

	sub.SetField(levelField[level], capitalizeWords(chosen.Name))
	r.levels[level].selected = *chosen
	r.levels[level].phase = PhaseSelected

	// reset semua turunan: nilai di Submission + cache opsi
	for l := level + 1; l < regionLevels; l++ {
		sub.SetField(levelField[l], "")
		r.levels[l] = levelState{}
	}

	if level == LevelVillage {
		return nil
	}

	next := level + 1
	r.levels[next].phase = PhaseLoading
	opts, err := r.fetch(ctx, next, chosen.ID)
	if err != nil {
		// non-fatal: tingkat yang sudah terisi tetap utuh, sisanya manual
		log.Printf("⚠️ Lookup wilayah tingkat %d gagal, pindah ke mode manual: %v", next, err)
		r.degrade()
		return nil
	}
	r.levels[next] = levelState{phase: PhaseLoaded, options: opts}
	return nil
}

// SetManual menulis isian teks bebas untuk satu tingkat (mode degradasi).
func (r *RegionResolver) SetManual(sub *model.Submission, level int, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if level < 0 || level >= regionLevels {
		return fmt.Errorf("tingkat wilayah tidak dikenal: %d", level)
	}
	if !r.manual {
		return fmt.Errorf("resolver masih otomatis, pilih dari daftar")
	}
	sub.SetField(levelField[level], strings.TrimSpace(value))
	return nil
}

// Options mengembalikan salinan daftar opsi satu tingkat, difilter
// case-insensitive terhadap nama tampil. Cache tidak pernah dimutasi.
func (r *RegionResolver) Options(level int, filter string) []RegionOption {
	r.mu.Lock()
	defer r.mu.Unlock()

	if level < 0 || level >= regionLevels {
		return nil
	}
	filter = strings.ToLower(strings.TrimSpace(filter))
	out := make([]RegionOption, 0, len(r.levels[level].options))
	for _, opt := range r.levels[level].options {
		display := capitalizeWords(opt.Name)
		if filter == "" || strings.Contains(strings.ToLower(display), filter) {
			out = append(out, RegionOption{ID: opt.ID, Name: display})
		}
	}
	return out
}

func (r *RegionResolver) Manual() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.manual
}

func (r *RegionResolver) Phase(level int) LevelPhase {
	r.mu.Lock()
	defer r.mu.Unlock()
	if level < 0 || level >= regionLevels {
		return PhaseEmpty
	}
	return r.levels[level].phase
}

// degrade mematikan lookup otomatis untuk sisa sesi.
// Opsi yang sudah ter-load tetap bisa dipakai tampilannya.
func (r *RegionResolver) degrade() {
	r.manual = true
	for l := 0; l < regionLevels; l++ {
		if r.levels[l].phase == PhaseLoading {
			r.levels[l].phase = PhaseEmpty
		}
	}
}

func (r *RegionResolver) fetch(ctx context.Context, level int, parentID string) ([]RegionOption, error) {
	var path string
	switch level {
	case LevelProvince:
		path = "/provinces.json"
	case LevelRegency:
		path = "/regencies/" + parentID + ".json"
	case LevelDistrict:
		path = "/districts/" + parentID + ".json"
	case LevelVillage:
		path = "/villages/" + parentID + ".json"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("gagal membuat request wilayah: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gagal memanggil API wilayah: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API wilayah status %d", resp.StatusCode)
	}

	var opts []RegionOption
	if err := json.NewDecoder(resp.Body).Decode(&opts); err != nil {
		return nil, fmt.Errorf("respons wilayah tidak valid: %w", err)
	}
	// urutan dipertahankan apa adanya dari API, tanpa sort tambahan
	return opts, nil
}

// capitalizeWords: "KAB. MALANG" → "Kab. Malang" (normalisasi tampilan saja).
func capitalizeWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
