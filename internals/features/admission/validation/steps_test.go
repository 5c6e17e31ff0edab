package validation

import (
	"testing"

	model "github.com/bhumingasorofficial/psb-bhumingasor/internals/features/admission/model"
)

func TestValidateStepFiltersForeignFields(t *testing.T) {
	// submission kosong: hampir semua field error
	sub := model.NewSubmission()

	res := ValidateStep(1, sub, nil)
	if res.Success {
		t.Fatal("step 1 dengan data kosong harus gagal")
	}
	for _, foreign := range []string{"fatherName", "motherName", "parentWaNumber", "kartuKeluarga", "finalAgreement"} {
		if _, ok := res.Errors[foreign]; ok {
			t.Errorf("error %s bukan milik step 1, tidak boleh bocor", foreign)
		}
	}
	if _, ok := res.Errors["fullName"]; !ok {
		t.Error("fullName kosong harus muncul di step 1")
	}
}

func TestValidateStepTwoOwnsParents(t *testing.T) {
	sub := validSubmission()
	sub.FatherName = ""

	res := ValidateStep(2, sub, nil)
	if res.Success {
		t.Fatal("step 2 tanpa nama ayah harus gagal")
	}
	if _, ok := res.Errors["fatherName"]; !ok {
		t.Error("fatherName harus muncul di step 2")
	}
	// berkas kosong bukan urusan step 2
	if _, ok := res.Errors["pasFoto"]; ok {
		t.Error("error berkas tidak boleh bocor ke step 2")
	}
}

func TestValidateStepFiles(t *testing.T) {
	sub := validSubmission()

	res := ValidateStep(3, sub, nil)
	if res.Success {
		t.Fatal("step 3 tanpa berkas harus gagal")
	}
	if len(res.Errors) != len(model.FullFormSlots) {
		t.Fatalf("semua slot wajib harus error, dapat %d", len(res.Errors))
	}

	res = ValidateStep(3, sub, validFiles())
	if !res.Success {
		t.Fatalf("semua berkas terisi tapi step 3 gagal: %v", res.Errors)
	}
}

func TestValidateStepUnknown(t *testing.T) {
	res := ValidateStep(99, model.NewSubmission(), nil)
	if !res.Success {
		t.Fatal("step tidak dikenal dianggap lolos (step review)")
	}
}

func TestStepFieldsCoverConditionalOwners(t *testing.T) {
	// field pengendali & field yang bergantung padanya harus satu step
	owns := func(step int, field string) bool {
		for _, f := range StepFields[step] {
			if f == field {
				return true
			}
		}
		return false
	}
	if !owns(1, "schoolChoice") || !owns(1, "smkMajor") || !owns(1, "nisn") {
		t.Error("schoolChoice, smkMajor, dan nisn harus sama-sama di step 1")
	}
	if !owns(2, "fatherOccupationOther") || !owns(2, "guardianName") {
		t.Error("field kondisional orang tua/wali harus di step 2")
	}
}
