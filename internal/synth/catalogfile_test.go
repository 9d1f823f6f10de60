package synth_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cohortgen/internal/synth"
)

type catalogPayload struct {
	Diagnoses []diagnosisPayload `toml:"diagnosis,omitempty"`
	Weights   weightsPayload     `toml:"weights,omitempty"`
	Pools     poolsPayload       `toml:"pools,omitempty"`
}

type diagnosisPayload struct {
	Name            string   `toml:"name"`
	BaseStayDays    float64  `toml:"base_stay_days"`
	StaySpreadDays  float64  `toml:"stay_spread_days"`
	ReadmitBaseRate float64  `toml:"readmit_base_rate"`
	Medications     []string `toml:"medications"`
}

type weightsPayload struct {
	DiagnosisUnder65 []float64 `toml:"diagnosis_under_65,omitempty"`
	Diagnosis65To79  []float64 `toml:"diagnosis_65_to_79,omitempty"`
	Diagnosis80Plus  []float64 `toml:"diagnosis_80_plus,omitempty"`
	Alcohol          []float64 `toml:"alcohol,omitempty"`
}

type poolsPayload struct {
	Genders        []string `toml:"genders,omitempty"`
	InsuranceTypes []string `toml:"insurance_types,omitempty"`
}

func writeCatalogFile(t *testing.T, payload catalogPayload) string {
	t.Helper()
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal catalog payload: %v", err)
	}
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write catalog payload: %v", err)
	}
	return path
}

func TestLoadCatalogOverridesDiagnoses(t *testing.T) {
	path := writeCatalogFile(t, catalogPayload{
		Diagnoses: []diagnosisPayload{
			{Name: "Migraine", BaseStayDays: 2, StaySpreadDays: 1, ReadmitBaseRate: 0.05, Medications: []string{"Analgesics"}},
			{Name: "Other", BaseStayDays: 4, StaySpreadDays: 2, ReadmitBaseRate: 0.1, Medications: []string{"Analgesics", "Multivitamins"}},
		},
		Weights: weightsPayload{
			DiagnosisUnder65: []float64{0.7, 0.3},
			Diagnosis65To79:  []float64{0.5, 0.5},
			Diagnosis80Plus:  []float64{0.4, 0.6},
		},
	})

	catalog, err := synth.LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(catalog.Diagnoses) != 2 {
		t.Fatalf("got %d diagnoses, want 2", len(catalog.Diagnoses))
	}
	params := catalog.Params("Migraine")
	if params.BaseStayDays != 2 || params.ReadmitBaseRate != 0.05 {
		t.Fatalf("unexpected migraine params: %+v", params)
	}

	// Sections absent from the file keep their defaults.
	defaults := synth.DefaultCatalog()
	if len(catalog.Genders) != len(defaults.Genders) {
		t.Fatalf("gender pool changed: got %v", catalog.Genders)
	}
	if len(catalog.AlcoholWeights) != len(defaults.AlcoholWeights) {
		t.Fatalf("alcohol weights changed: got %v", catalog.AlcoholWeights)
	}
}

func TestLoadCatalogPartialWeights(t *testing.T) {
	path := writeCatalogFile(t, catalogPayload{
		Weights: weightsPayload{Alcohol: []float64{0.2, 0.6, 0.2}},
	})

	catalog, err := synth.LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if got := catalog.AlcoholWeights[1]; got != 0.6 {
		t.Fatalf("alcohol weight not applied: got %v", got)
	}
	if len(catalog.Diagnoses) != len(synth.DefaultCatalog().Diagnoses) {
		t.Fatalf("taxonomy changed by weights-only file: %d diagnoses", len(catalog.Diagnoses))
	}
}

func TestLoadCatalogTitleCasesPools(t *testing.T) {
	path := writeCatalogFile(t, catalogPayload{
		Pools: poolsPayload{
			Genders:        []string{"male", "female", " other "},
			InsuranceTypes: []string{"private", "medicare", "self-pay"},
		},
	})

	catalog, err := synth.LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	wantGenders := []string{"Male", "Female", "Other"}
	for i, want := range wantGenders {
		if catalog.Genders[i] != want {
			t.Fatalf("gender %d: got %q want %q", i, catalog.Genders[i], want)
		}
	}
	wantInsurance := []string{"Private", "Medicare", "Self-Pay"}
	for i, want := range wantInsurance {
		if catalog.InsuranceTypes[i] != want {
			t.Fatalf("insurance %d: got %q want %q", i, catalog.InsuranceTypes[i], want)
		}
	}
}

func TestLoadCatalogRejectsInvalidShapes(t *testing.T) {
	path := writeCatalogFile(t, catalogPayload{
		Weights: weightsPayload{DiagnosisUnder65: []float64{1}},
	})
	if _, err := synth.LoadCatalog(path); err == nil {
		t.Fatal("expected error for weight count mismatch")
	}

	path = writeCatalogFile(t, catalogPayload{
		Diagnoses: []diagnosisPayload{
			{Name: "Migraine", BaseStayDays: 2, ReadmitBaseRate: 0.05, Medications: []string{"Analgesics"}},
		},
		Weights: weightsPayload{
			DiagnosisUnder65: []float64{1},
			Diagnosis65To79:  []float64{1},
			Diagnosis80Plus:  []float64{1},
		},
	})
	if _, err := synth.LoadCatalog(path); err == nil {
		t.Fatal("expected error for missing fallback diagnosis")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := synth.LoadCatalog(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadCatalogBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte("diagnosis = ["), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := synth.LoadCatalog(path); err == nil {
		t.Fatal("expected error for malformed file")
	}
}
