package model

/* =========================================================
   ENUM LABEL — nilai yang disimpan = label yang tampil,
   sama dengan yang ditulis panitia di spreadsheet.
   ========================================================= */

// Jenjang pendidikan
const (
	SchoolLevelMI     = "MI Bhumi Ngasor"
	SchoolLevelSMP    = "SMP Bhumi Ngasor"
	SchoolLevelSMK    = "SMK Bhumi Ngasor"
	SchoolLevelKuliah = "Perguruan Tinggi (Kuliah)"
	SchoolLevelMondok = "Lainnya (Mondok Saja)"
)

var SchoolLevels = []string{
	SchoolLevelMI,
	SchoolLevelSMP,
	SchoolLevelSMK,
	SchoolLevelKuliah,
	SchoolLevelMondok,
}

// Jenjang yang mewajibkan NISN (MI & Mondok Saja tidak wajib)
var LevelsRequiringNISN = []string{SchoolLevelSMP, SchoolLevelSMK, SchoolLevelKuliah}

// Jurusan SMK
var SmkMajors = []string{
	"Desain Komunikasi Visual (DKV)",
	"Teknik Kendaraan Ringan (TKR)",
	"Akuntansi",
}

// Jenis kelamin
var Genders = []string{"Laki-laki", "Perempuan"}

// Pendidikan orang tua / wali
var ParentEducations = []string{
	"Tidak Sekolah",
	"SD / Sederajat",
	"SMP / Sederajat",
	"SMA / Sederajat",
	"D1",
	"D2",
	"D3",
	"S1 / D4",
	"S2",
	"S3",
}

// Pekerjaan orang tua / wali
const OccupationOther = "Lainnya..."

var ParentOccupations = []string{
	"PNS",
	"TNI/POLRI",
	"Wiraswasta",
	"Karyawan Swasta",
	"Petani",
	"Nelayan",
	"Buruh",
	"Ibu Rumah Tangga",
	"Pensiunan",
	"Sudah Meninggal",
	OccupationOther,
}

// Penghasilan orang tua / wali
var ParentIncomes = []string{
	"Kurang dari Rp 1.000.000",
	"Rp 1.000.000 - Rp 2.000.000",
	"Rp 2.000.000 - Rp 5.000.000",
	"Rp 5.000.000 - Rp 20.000.000",
	"Lebih dari Rp 20.000.000",
	"Tidak Berpenghasilan",
}

func InList(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func LevelRequiresNISN(level string) bool { return InList(LevelsRequiringNISN, level) }
