package model

import (
	"strings"
	"testing"
)

func TestSnapshotDropsConsent(t *testing.T) {
	sub := NewSubmission()
	sub.NIK = "3515126704990001"
	sub.FullName = "Ahmad Fauzi"
	sub.TermsAgreed = true
	sub.FinalAgreement = true

	raw, err := sub.Snapshot()
	if err != nil {
		t.Fatalf("snapshot gagal: %v", err)
	}

	restored := NewSubmission()
	restored.NIK = sub.NIK
	if err := restored.MergeSnapshot(raw); err != nil {
		t.Fatalf("merge gagal: %v", err)
	}

	if restored.FullName != "Ahmad Fauzi" {
		t.Errorf("fullName hilang: %q", restored.FullName)
	}
	if restored.TermsAgreed || restored.FinalAgreement {
		t.Error("persetujuan harus di-reset, tidak boleh ikut draft")
	}
}

func TestMergeSnapshotKeepsSessionIdentity(t *testing.T) {
	old := NewSubmission()
	old.NIK = "1111111111111111"
	old.RegID = "PSB-LAMA"
	raw, _ := old.Snapshot()

	sub := NewSubmission()
	sub.NIK = "2222222222222222"
	sub.RegID = "PSB-BARU"
	if err := sub.MergeSnapshot(raw); err != nil {
		t.Fatalf("merge gagal: %v", err)
	}
	if sub.NIK != "2222222222222222" || sub.RegID != "PSB-BARU" {
		t.Errorf("identitas sesi kalah dari draft: nik=%s regId=%s", sub.NIK, sub.RegID)
	}
}

func TestMergeSnapshotCorrupt(t *testing.T) {
	sub := NewSubmission()
	if err := sub.MergeSnapshot([]byte("{bukan json")); err == nil {
		t.Fatal("draft rusak harus mengembalikan error")
	}
}

func TestComposedAddress(t *testing.T) {
	sub := NewSubmission()
	sub.SpecificAddress = "Dusun Ngasor RT 04"
	if got := sub.ComposedAddress(); got != "Dusun Ngasor RT 04" {
		t.Errorf("alamat tanpa wilayah harus apa adanya, dapat %q", got)
	}

	sub.Province = "Jawa Timur"
	sub.City = "Kab. Sidoarjo"
	sub.District = "Tulangan"
	sub.Village = "Kepadangan"
	sub.RT = "04"
	sub.RW = "02"
	got := sub.ComposedAddress()
	for _, part := range []string{"Dusun Ngasor RT 04", "RT 04/RW 02", "Kepadangan", "Tulangan", "Kab. Sidoarjo"} {
		if !strings.Contains(got, part) {
			t.Errorf("alamat %q kurang bagian %q", got, part)
		}
	}
}

func TestFieldAccessorsRoundTrip(t *testing.T) {
	sub := NewSubmission()
	if ok := sub.SetField("birthPlace", "Sidoarjo"); !ok {
		t.Fatal("birthPlace harus dikenal")
	}
	if v, _ := sub.Field("birthPlace"); v != "Sidoarjo" {
		t.Errorf("dapat %q", v)
	}
	if ok := sub.SetField("fieldNgawur", "x"); ok {
		t.Error("field tidak dikenal harus ditolak")
	}
	if ok := sub.SetBoolField("hasGuardian", true); !ok || !sub.HasGuardian {
		t.Error("hasGuardian tidak tertulis")
	}
}

func TestJoinedInfoSource(t *testing.T) {
	sub := NewSubmission()
	sub.InfoSource = []string{"Media Sosial", "Teman/Saudara"}
	if got := sub.JoinedInfoSource(); got != "Media Sosial, Teman/Saudara" {
		t.Errorf("dapat %q", got)
	}
}
