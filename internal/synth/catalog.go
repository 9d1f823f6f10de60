package synth

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// FallbackDiagnosis names the parameter set used when a record's diagnosis is
// not in the catalog. Validate rejects catalogs that omit it.
const FallbackDiagnosis = "Other"

// Diagnoses the generators branch on. Catalogs may rename or extend the rest
// of the taxonomy freely; these names keep their special vitals behavior.
const (
	diagnosisHypertension = "Hypertension"
	diagnosisHeartFailure = "Heart Failure"
	diagnosisSepsis       = "Sepsis"
	diagnosisDiabetes     = "Diabetes"

	smokingCurrent = "Current"
)

// DiagnosisParams tunes the stay and readmission behavior of one diagnosis.
type DiagnosisParams struct {
	Name string
	// BaseStayDays parameterizes the log-normal stay draw.
	BaseStayDays float64
	// StaySpreadDays is retained catalog data describing day-scale variance;
	// the canonical stay model derives its spread from the log-normal sigma.
	StaySpreadDays float64
	// ReadmitBaseRate is the additive risk model's base term.
	ReadmitBaseRate float64
	// Medications is the candidate formulary for this diagnosis.
	Medications []string
}

// Catalog is the immutable configuration the generators read: the ordered
// diagnosis table, the age-banded diagnosis mix, and the categorical pools
// with their draw weights. Construct it once at startup, validate it, and
// pass it by reference; nothing mutates it afterwards.
type Catalog struct {
	// Diagnoses is ordered; every diagnosis weight vector below indexes into
	// it positionally.
	Diagnoses []DiagnosisParams

	// Diagnosis mix by patient age band.
	DiagnosisWeightsUnder65 []float64
	DiagnosisWeights65To79  []float64
	DiagnosisWeights80Plus  []float64

	// Genders draw uniformly.
	Genders []string

	SmokingStatuses       []string
	SmokingWeightsUnder30 []float64
	SmokingWeights30To64  []float64
	SmokingWeights65Plus  []float64

	AlcoholUse     []string
	AlcoholWeights []float64

	InsuranceTypes   []string
	InsuranceWeights []float64
}

// DefaultCatalog returns the built-in admission catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Diagnoses: []DiagnosisParams{
			{Name: "Hypertension", BaseStayDays: 3, StaySpreadDays: 2, ReadmitBaseRate: 0.05,
				Medications: []string{"ACE Inhibitors", "Beta Blockers", "Calcium Channel Blockers", "Diuretics"}},
			{Name: "Heart Failure", BaseStayDays: 6, StaySpreadDays: 4, ReadmitBaseRate: 0.18,
				Medications: []string{"ACE Inhibitors", "Beta Blockers", "Diuretics", "Aldosterone Antagonists"}},
			{Name: "Pneumonia", BaseStayDays: 5, StaySpreadDays: 3, ReadmitBaseRate: 0.12,
				Medications: []string{"Antibiotics", "Bronchodilators"}},
			{Name: "Stroke", BaseStayDays: 8, StaySpreadDays: 5, ReadmitBaseRate: 0.20,
				Medications: []string{"Antiplatelets", "Anticoagulants", "Statins"}},
			{Name: "Diabetes", BaseStayDays: 4, StaySpreadDays: 3, ReadmitBaseRate: 0.10,
				Medications: []string{"Insulin", "Metformin", "SGLT2 Inhibitors"}},
			{Name: "COPD", BaseStayDays: 5, StaySpreadDays: 3, ReadmitBaseRate: 0.15,
				Medications: []string{"Bronchodilators", "Inhaled Steroids"}},
			{Name: "Fracture", BaseStayDays: 2, StaySpreadDays: 1, ReadmitBaseRate: 0.04,
				Medications: []string{"Analgesics", "Opioids"}},
			{Name: "Sepsis", BaseStayDays: 10, StaySpreadDays: 7, ReadmitBaseRate: 0.22,
				Medications: []string{"Antibiotics", "Vasopressors"}},
			{Name: "Cancer", BaseStayDays: 7, StaySpreadDays: 6, ReadmitBaseRate: 0.14,
				Medications: []string{"Chemotherapy", "Analgesics"}},
			{Name: "Other", BaseStayDays: 3, StaySpreadDays: 2, ReadmitBaseRate: 0.06,
				Medications: []string{"Analgesics", "Multivitamins"}},
		},

		DiagnosisWeightsUnder65: []float64{0.18, 0.08, 0.06, 0.03, 0.12, 0.05, 0.12, 0.04, 0.15, 0.17},
		DiagnosisWeights65To79:  []float64{0.20, 0.18, 0.06, 0.07, 0.08, 0.10, 0.04, 0.05, 0.07, 0.15},
		DiagnosisWeights80Plus:  []float64{0.15, 0.20, 0.05, 0.05, 0.08, 0.12, 0.05, 0.05, 0.10, 0.15},

		Genders: []string{"Male", "Female", "Other"},

		SmokingStatuses:       []string{"Never", "Former", "Current"},
		SmokingWeightsUnder30: []float64{0.6, 0.15, 0.25},
		SmokingWeights30To64:  []float64{0.5, 0.25, 0.25},
		SmokingWeights65Plus:  []float64{0.6, 0.3, 0.1},

		AlcoholUse:     []string{"None", "Moderate", "Heavy"},
		AlcoholWeights: []float64{0.35, 0.55, 0.10},

		InsuranceTypes:   []string{"Private", "Public", "Self-Pay"},
		InsuranceWeights: []float64{0.5, 0.4, 0.1},
	}
}

// Params returns the parameter set for name, falling back to the generic
// entry when the diagnosis is unmapped.
func (c *Catalog) Params(name string) DiagnosisParams {
	for _, d := range c.Diagnoses {
		if d.Name == name {
			return d
		}
	}
	for _, d := range c.Diagnoses {
		if d.Name == FallbackDiagnosis {
			return d
		}
	}
	return DiagnosisParams{}
}

// ReadmissionRisk computes the additive readmission probability for the given
// field combination: diagnosis base rate, plus age, prior-admission, BMI,
// smoking, and long-stay terms, clamped to [0.01, 0.9].
func (c *Catalog) ReadmissionRisk(age int, diagnosis string, priorAdmissions, lengthOfStay int, smoking string, bmi float64) float64 {
	p := c.Params(diagnosis).ReadmitBaseRate
	p += 0.01 * math.Max(0, float64(age-50)/10)
	p += 0.03 * float64(min(priorAdmissions, 5))
	p += 0.02 * math.Max(0, (bmi-25)/5)
	if smoking == smokingCurrent {
		p += 0.02
	}
	if lengthOfStay > 7 {
		p += 0.01
	}
	return clampFloat(p, 0.01, 0.9)
}

func (c *Catalog) diagnosisWeightsFor(age int) []float64 {
	switch {
	case age >= 80:
		return c.DiagnosisWeights80Plus
	case age >= 65:
		return c.DiagnosisWeights65To79
	default:
		return c.DiagnosisWeightsUnder65
	}
}

func (c *Catalog) smokingWeightsFor(age int) []float64 {
	switch {
	case age >= 65:
		return c.SmokingWeights65Plus
	case age >= 30:
		return c.SmokingWeights30To64
	default:
		return c.SmokingWeightsUnder30
	}
}

// Validate checks the catalog for the misconfigurations that would otherwise
// surface as bad records: empty tables, weight vectors whose length does not
// match their pool, empty formularies, and non-positive stay parameters.
// A failed validation is a fatal configuration error at process start.
func (c *Catalog) Validate() error {
	if len(c.Diagnoses) == 0 {
		return errors.New("catalog: no diagnoses configured")
	}
	seen := make(map[string]struct{}, len(c.Diagnoses))
	hasFallback := false
	for i, d := range c.Diagnoses {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return fmt.Errorf("catalog: diagnosis %d has no name", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("catalog: duplicate diagnosis %q", name)
		}
		seen[name] = struct{}{}
		if name == FallbackDiagnosis {
			hasFallback = true
		}
		if d.BaseStayDays <= 0 {
			return fmt.Errorf("catalog: diagnosis %q base stay must be positive", name)
		}
		if d.StaySpreadDays < 0 {
			return fmt.Errorf("catalog: diagnosis %q stay spread must not be negative", name)
		}
		if d.ReadmitBaseRate < 0 || d.ReadmitBaseRate > 1 {
			return fmt.Errorf("catalog: diagnosis %q readmission base rate must be between 0 and 1", name)
		}
		if len(d.Medications) == 0 {
			return fmt.Errorf("catalog: diagnosis %q has an empty formulary", name)
		}
	}
	if !hasFallback {
		return fmt.Errorf("catalog: fallback diagnosis %q missing", FallbackDiagnosis)
	}

	diagnosisVectors := []struct {
		name    string
		weights []float64
	}{
		{"diagnosis weights (under 65)", c.DiagnosisWeightsUnder65},
		{"diagnosis weights (65 to 79)", c.DiagnosisWeights65To79},
		{"diagnosis weights (80 plus)", c.DiagnosisWeights80Plus},
	}
	for _, v := range diagnosisVectors {
		if err := validateWeights(v.name, v.weights, len(c.Diagnoses)); err != nil {
			return err
		}
	}

	pools := []struct {
		name string
		pool []string
	}{
		{"genders", c.Genders},
		{"smoking statuses", c.SmokingStatuses},
		{"alcohol use", c.AlcoholUse},
		{"insurance types", c.InsuranceTypes},
	}
	for _, p := range pools {
		if len(p.pool) == 0 {
			return fmt.Errorf("catalog: %s pool is empty", p.name)
		}
	}

	poolVectors := []struct {
		name    string
		weights []float64
		want    int
	}{
		{"smoking weights (under 30)", c.SmokingWeightsUnder30, len(c.SmokingStatuses)},
		{"smoking weights (30 to 64)", c.SmokingWeights30To64, len(c.SmokingStatuses)},
		{"smoking weights (65 plus)", c.SmokingWeights65Plus, len(c.SmokingStatuses)},
		{"alcohol weights", c.AlcoholWeights, len(c.AlcoholUse)},
		{"insurance weights", c.InsuranceWeights, len(c.InsuranceTypes)},
	}
	for _, v := range poolVectors {
		if err := validateWeights(v.name, v.weights, v.want); err != nil {
			return err
		}
	}
	return nil
}

func validateWeights(name string, weights []float64, want int) error {
	if len(weights) != want {
		return fmt.Errorf("catalog: %s has %d entries, want %d", name, len(weights), want)
	}
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return fmt.Errorf("catalog: %s entry %d is negative", name, i)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("catalog: %s sum to zero", name)
	}
	return nil
}
