package synth

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// catalogFile mirrors the TOML shape of a catalog override. Sections omitted
// from the file keep their built-in defaults, so a file can retune just the
// diagnosis table.
type catalogFile struct {
	Diagnoses []diagnosisEntry `toml:"diagnosis"`
	Weights   weightsSection   `toml:"weights"`
	Pools     poolsSection     `toml:"pools"`
}

type diagnosisEntry struct {
	Name            string   `toml:"name"`
	BaseStayDays    float64  `toml:"base_stay_days"`
	StaySpreadDays  float64  `toml:"stay_spread_days"`
	ReadmitBaseRate float64  `toml:"readmit_base_rate"`
	Medications     []string `toml:"medications"`
}

type weightsSection struct {
	DiagnosisUnder65 []float64 `toml:"diagnosis_under_65"`
	Diagnosis65To79  []float64 `toml:"diagnosis_65_to_79"`
	Diagnosis80Plus  []float64 `toml:"diagnosis_80_plus"`
	SmokingUnder30   []float64 `toml:"smoking_under_30"`
	Smoking30To64    []float64 `toml:"smoking_30_to_64"`
	Smoking65Plus    []float64 `toml:"smoking_65_plus"`
	Alcohol          []float64 `toml:"alcohol"`
	Insurance        []float64 `toml:"insurance"`
}

type poolsSection struct {
	Genders         []string `toml:"genders"`
	SmokingStatuses []string `toml:"smoking_statuses"`
	AlcoholUse      []string `toml:"alcohol_use"`
	InsuranceTypes  []string `toml:"insurance_types"`
}

// LoadCatalog reads a catalog override from a TOML file and validates the
// result. Categorical pool entries are title-cased so that the generators'
// branch conditions (for example the current-smoker risk term) keep matching
// however the file spells them. Diagnosis names are kept verbatim apart from
// surrounding whitespace because the taxonomy contains acronyms.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	catalog := DefaultCatalog()

	if len(file.Diagnoses) > 0 {
		diagnoses := make([]DiagnosisParams, 0, len(file.Diagnoses))
		for _, entry := range file.Diagnoses {
			diagnoses = append(diagnoses, DiagnosisParams{
				Name:            strings.TrimSpace(entry.Name),
				BaseStayDays:    entry.BaseStayDays,
				StaySpreadDays:  entry.StaySpreadDays,
				ReadmitBaseRate: entry.ReadmitBaseRate,
				Medications:     trimAll(entry.Medications),
			})
		}
		catalog.Diagnoses = diagnoses
	}

	applyWeights(&catalog.DiagnosisWeightsUnder65, file.Weights.DiagnosisUnder65)
	applyWeights(&catalog.DiagnosisWeights65To79, file.Weights.Diagnosis65To79)
	applyWeights(&catalog.DiagnosisWeights80Plus, file.Weights.Diagnosis80Plus)
	applyWeights(&catalog.SmokingWeightsUnder30, file.Weights.SmokingUnder30)
	applyWeights(&catalog.SmokingWeights30To64, file.Weights.Smoking30To64)
	applyWeights(&catalog.SmokingWeights65Plus, file.Weights.Smoking65Plus)
	applyWeights(&catalog.AlcoholWeights, file.Weights.Alcohol)
	applyWeights(&catalog.InsuranceWeights, file.Weights.Insurance)

	title := cases.Title(language.Und)
	applyPool(&catalog.Genders, file.Pools.Genders, title)
	applyPool(&catalog.SmokingStatuses, file.Pools.SmokingStatuses, title)
	applyPool(&catalog.AlcoholUse, file.Pools.AlcoholUse, title)
	applyPool(&catalog.InsuranceTypes, file.Pools.InsuranceTypes, title)

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return catalog, nil
}

func applyWeights(dst *[]float64, weights []float64) {
	if len(weights) > 0 {
		*dst = weights
	}
}

func applyPool(dst *[]string, pool []string, title cases.Caser) {
	if len(pool) == 0 {
		return
	}
	normalized := make([]string, 0, len(pool))
	for _, entry := range pool {
		normalized = append(normalized, title.String(strings.TrimSpace(entry)))
	}
	*dst = normalized
}

func trimAll(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return trimmed
}
