package synth_test

import (
	"testing"

	"cohortgen/internal/synth"
)

func TestDefaultCatalogValidates(t *testing.T) {
	if err := synth.DefaultCatalog().Validate(); err != nil {
		t.Fatalf("default catalog failed validation: %v", err)
	}
}

func TestCatalogValidateRejectsBadShapes(t *testing.T) {
	catalog := synth.DefaultCatalog()
	catalog.Diagnoses = nil
	if err := catalog.Validate(); err == nil {
		t.Fatal("expected error for empty taxonomy")
	}

	catalog = synth.DefaultCatalog()
	catalog.Diagnoses[0].Name = "  "
	if err := catalog.Validate(); err == nil {
		t.Fatal("expected error for blank diagnosis name")
	}

	catalog = synth.DefaultCatalog()
	catalog.Diagnoses[1].Name = catalog.Diagnoses[0].Name
	if err := catalog.Validate(); err == nil {
		t.Fatal("expected error for duplicate diagnosis name")
	}

	catalog = synth.DefaultCatalog()
	catalog.Diagnoses[0].BaseStayDays = 0
	if err := catalog.Validate(); err == nil {
		t.Fatal("expected error for non-positive base stay")
	}

	catalog = synth.DefaultCatalog()
	catalog.Diagnoses[0].StaySpreadDays = -1
	if err := catalog.Validate(); err == nil {
		t.Fatal("expected error for negative stay spread")
	}

	catalog = synth.DefaultCatalog()
	catalog.Diagnoses[0].ReadmitBaseRate = 1.5
	if err := catalog.Validate(); err == nil {
		t.Fatal("expected error for out-of-range base rate")
	}

	catalog = synth.DefaultCatalog()
	catalog.Diagnoses[0].Medications = nil
	if err := catalog.Validate(); err == nil {
		t.Fatal("expected error for empty formulary")
	}

	catalog = synth.DefaultCatalog()
	for i := range catalog.Diagnoses {
		if catalog.Diagnoses[i].Name == synth.FallbackDiagnosis {
			catalog.Diagnoses[i].Name = "Miscellaneous"
		}
	}
	if err := catalog.Validate(); err == nil {
		t.Fatal("expected error for missing fallback diagnosis")
	}

	catalog = synth.DefaultCatalog()
	catalog.DiagnosisWeightsUnder65 = catalog.DiagnosisWeightsUnder65[:3]
	if err := catalog.Validate(); err == nil {
		t.Fatal("expected error for weight count mismatch")
	}

	catalog = synth.DefaultCatalog()
	catalog.SmokingWeights30To64[1] = -0.2
	if err := catalog.Validate(); err == nil {
		t.Fatal("expected error for negative weight")
	}

	catalog = synth.DefaultCatalog()
	for i := range catalog.AlcoholWeights {
		catalog.AlcoholWeights[i] = 0
	}
	if err := catalog.Validate(); err == nil {
		t.Fatal("expected error for zero-sum weights")
	}

	catalog = synth.DefaultCatalog()
	catalog.Genders = nil
	if err := catalog.Validate(); err == nil {
		t.Fatal("expected error for empty gender pool")
	}
}

func TestParamsFallsBackToOther(t *testing.T) {
	catalog := synth.DefaultCatalog()

	params := catalog.Params("Pneumonia")
	if params.Name != "Pneumonia" {
		t.Fatalf("unexpected params for known diagnosis: got %q want %q", params.Name, "Pneumonia")
	}

	params = catalog.Params("No Such Condition")
	if params.Name != synth.FallbackDiagnosis {
		t.Fatalf("unexpected fallback: got %q want %q", params.Name, synth.FallbackDiagnosis)
	}
	if len(params.Medications) == 0 {
		t.Fatal("fallback formulary is empty")
	}
}

func TestReadmissionRiskClampsBothEnds(t *testing.T) {
	catalog := synth.DefaultCatalog()
	catalog.Diagnoses = append(catalog.Diagnoses,
		synth.DiagnosisParams{Name: "Benign", BaseStayDays: 1, ReadmitBaseRate: 0.001, Medications: []string{"Analgesics"}},
		synth.DiagnosisParams{Name: "Dire", BaseStayDays: 1, ReadmitBaseRate: 1, Medications: []string{"Analgesics"}},
	)

	low := catalog.ReadmissionRisk(18, "Benign", 0, 1, "Never", 15)
	if low != 0.01 {
		t.Fatalf("risk floor not applied: got %.4f want 0.01", low)
	}

	high := catalog.ReadmissionRisk(100, "Dire", 20, 30, "Current", 45)
	if high != 0.9 {
		t.Fatalf("risk ceiling not applied: got %.4f want 0.9", high)
	}
}
