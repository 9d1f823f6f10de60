package synth

import (
	"encoding/hex"
	"math"
	"time"

	"github.com/google/uuid"
)

// Parameters of the continuous draws. The catalog carries every per-diagnosis
// and categorical table; these constants define the generators themselves.
const (
	olderClusterShare    = 0.65
	olderClusterMean     = 75.0
	olderClusterSpread   = 8.0
	youngerClusterMean   = 45.0
	youngerClusterSpread = 12.0

	staySigma       = 0.5
	longTailChance  = 0.02
	longTailMinDays = 5
	longTailMaxDays = 30

	priorRateUnder40 = 0.2
	priorRate40To64  = 0.7
	priorRate65Plus  = 1.6

	maxPriorAdmissions = 20

	followUpRate = 0.7

	lookbackMeanDays   = 200.0
	lookbackSpreadDays = 150.0
)

var medicationCountWeights = []float64{0.6, 0.3, 0.1}

// Generator assembles records from an immutable catalog and an injected
// sampler. It holds no other state, so a single Generator may be invoked any
// number of times; consecutive calls consume the sampler's stream in a fixed
// order, which is what makes seeded runs reproducible.
type Generator struct {
	catalog *Catalog
	sampler Sampler
	now     func() time.Time
}

// Option customizes Generator construction.
type Option func(*Generator)

// WithClock overrides the wall clock used for admission dates and generation
// timestamps. Tests pin it to make full records reproducible.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator builds a record generator over a validated catalog.
func NewGenerator(catalog *Catalog, sampler Sampler, opts ...Option) *Generator {
	g := &Generator{catalog: catalog, sampler: sampler, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Catalog returns the catalog this generator reads.
func (g *Generator) Catalog() *Catalog {
	return g.catalog
}

// Record assembles one complete admission record in strict dependency order:
// age feeds diagnosis, both feed stay length and vitals, and the readmission
// label comes from the additive risk model over the assembled fields.
func (g *Generator) Record() Record {
	age := g.SampleAge()
	gender := g.catalog.Genders[g.sampler.IntN(len(g.catalog.Genders))]
	diagnosis := g.SampleDiagnosis(age)
	lengthOfStay := g.SampleLengthOfStay(diagnosis, age)
	prior := g.SamplePriorAdmissions(age)
	admission, discharge := g.sampleDates(lengthOfStay)

	bmi := g.SampleBMI(age)
	smoking := g.SampleSmoking(age)
	alcohol := g.SampleAlcohol()
	bp := g.SampleBloodPressure(age, diagnosis)
	cholesterol := g.SampleCholesterol(age)
	hba1c := g.SampleHbA1c(diagnosis)
	medications := g.SampleMedications(diagnosis)
	followUp := g.SampleFollowUp()
	insurance := g.SampleInsurance()

	risk := g.catalog.ReadmissionRisk(age, diagnosis, prior, lengthOfStay, smoking, bmi)
	readmitted := g.sampler.Float64() < risk

	return Record{
		PatientID:       g.identityToken(),
		Age:             age,
		Gender:          gender,
		AdmissionDate:   admission,
		DischargeDate:   discharge,
		Diagnosis:       diagnosis,
		LengthOfStay:    lengthOfStay,
		PriorAdmissions: prior,
		Medications:     medications,
		Readmitted:      Flag(readmitted),
		BMI:             bmi,
		SmokingStatus:   smoking,
		AlcoholUse:      alcohol,
		BloodPressure:   bp,
		Cholesterol:     cholesterol,
		HbA1c:           hba1c,
		FollowUp:        Flag(followUp),
		Insurance:       insurance,
		GeneratedAt:     g.now(),
	}
}

// Batch assembles n records in sequence. Records within a batch share the
// generator's sampler stream, so a seeded generator produces the same batch
// every run.
func (g *Generator) Batch(n int) []Record {
	if n <= 0 {
		return nil
	}
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, g.Record())
	}
	return records
}

// SampleAge draws from the bimodal inpatient age mixture: most admissions
// come from an older cluster, the rest from a younger/middle one. A single
// normal cannot produce this shape.
func (g *Generator) SampleAge() int {
	if g.sampler.Float64() < olderClusterShare {
		return clampInt(int(g.sampler.Normal(olderClusterMean, olderClusterSpread)), 18, 100)
	}
	return clampInt(int(g.sampler.Normal(youngerClusterMean, youngerClusterSpread)), 18, 64)
}

// SampleDiagnosis draws from the taxonomy using the age band's weight vector.
func (g *Generator) SampleDiagnosis(age int) string {
	weights := g.catalog.diagnosisWeightsFor(age)
	return g.catalog.Diagnoses[g.weightedIndex(weights)].Name
}

// SampleLengthOfStay draws a right-skewed stay for the diagnosis, adds a
// small bonus for patients 80 and over, and occasionally extends into a rare
// long tail. The result is always at least one day.
func (g *Generator) SampleLengthOfStay(diagnosis string, age int) int {
	params := g.catalog.Params(diagnosis)
	mu := math.Log(math.Max(0.9, params.BaseStayDays))
	stay := int(math.Round(g.sampler.LogNormal(mu, staySigma)))
	if stay < 1 {
		stay = 1
	}
	if age >= 80 {
		stay += g.sampler.IntN(3)
	}
	if g.sampler.Float64() < longTailChance {
		stay += longTailMinDays + g.sampler.IntN(longTailMaxDays-longTailMinDays+1)
	}
	return stay
}

// SamplePriorAdmissions draws an age-banded Poisson count, capped at 20.
func (g *Generator) SamplePriorAdmissions(age int) int {
	rate := priorRateUnder40
	switch {
	case age >= 65:
		rate = priorRate65Plus
	case age >= 40:
		rate = priorRate40To64
	}
	count := int(g.sampler.Poisson(rate))
	return min(count, maxPriorAdmissions)
}

// SampleBMI draws an age-banded BMI, clamped and rounded to one decimal.
func (g *Generator) SampleBMI(age int) float64 {
	var value float64
	switch {
	case age < 30:
		value = clampFloat(g.sampler.Normal(24, 3.5), 15, 40)
	case age < 60:
		value = clampFloat(g.sampler.Normal(28, 4.5), 18, 45)
	default:
		value = clampFloat(g.sampler.Normal(27, 4.0), 18, 42)
	}
	return roundTo1(value)
}

// SampleBloodPressure draws a systolic/diastolic pair around population
// means, with a hypertensive shift for hypertension or advanced age and an
// occasional hypotensive shift for sepsis and heart failure.
func (g *Generator) SampleBloodPressure(age int, diagnosis string) BloodPressure {
	sys := int(g.sampler.Normal(125, 12))
	dia := int(g.sampler.Normal(78, 8))
	if diagnosis == diagnosisHypertension || age > 70 {
		sys += absInt(int(g.sampler.Normal(10, 8)))
	}
	if (diagnosis == diagnosisSepsis || diagnosis == diagnosisHeartFailure) && g.sampler.Float64() < 0.3 {
		sys = max(80, sys-int(g.sampler.Normal(30, 10)))
		dia = max(40, dia-int(g.sampler.Normal(15, 6)))
	}
	return BloodPressure{
		Systolic:  clampInt(sys, 70, 220),
		Diastolic: clampInt(dia, 40, 130),
	}
}

// SampleCholesterol draws total cholesterol with a mild age effect past 40.
func (g *Generator) SampleCholesterol(age int) int {
	mean := 190 + 0.1*float64(max(age-40, 0))
	return clampInt(int(g.sampler.Normal(mean, 35)), 100, 400)
}

// SampleHbA1c draws an elevated band for diabetes, a tight band otherwise.
func (g *Generator) SampleHbA1c(diagnosis string) float64 {
	if diagnosis == diagnosisDiabetes {
		return roundTo1(clampFloat(g.sampler.Normal(8.5, 1.9), 5.6, 15))
	}
	return roundTo1(clampFloat(g.sampler.Normal(5.4, 0.4), 4.5, 7.5))
}

// SampleMedications picks one to three distinct entries from the diagnosis
// formulary, clamped to the pool size.
func (g *Generator) SampleMedications(diagnosis string) []string {
	pool := g.catalog.Params(diagnosis).Medications
	count := min(1+g.weightedIndex(medicationCountWeights), len(pool))
	order := g.sampler.Perm(len(pool))
	meds := make([]string, 0, count)
	for _, idx := range order[:count] {
		meds = append(meds, pool[idx])
	}
	return meds
}

// SampleSmoking draws smoking status with age-banded weights.
func (g *Generator) SampleSmoking(age int) string {
	return g.catalog.SmokingStatuses[g.weightedIndex(g.catalog.smokingWeightsFor(age))]
}

// SampleAlcohol draws alcohol use.
func (g *Generator) SampleAlcohol() string {
	return g.catalog.AlcoholUse[g.weightedIndex(g.catalog.AlcoholWeights)]
}

// SampleInsurance draws the insurance type.
func (g *Generator) SampleInsurance() string {
	return g.catalog.InsuranceTypes[g.weightedIndex(g.catalog.InsuranceWeights)]
}

// SampleFollowUp reports whether a follow-up appointment was scheduled.
func (g *Generator) SampleFollowUp() bool {
	return g.sampler.Float64() < followUpRate
}

// sampleDates derives the admission/discharge pair from the stay length. The
// lookback window skews recent; sub-day jitter adds intraday variety without
// breaking the day-level stay arithmetic.
func (g *Generator) sampleDates(lengthOfStay int) (time.Time, time.Time) {
	daysBack := int(math.Abs(g.sampler.Normal(lookbackMeanDays, lookbackSpreadDays)))
	admission := g.now().
		Add(-time.Duration(daysBack) * 24 * time.Hour).
		Add(time.Duration(g.sampler.IntN(1441)) * time.Minute)
	discharge := admission.
		Add(time.Duration(lengthOfStay) * 24 * time.Hour).
		Add(time.Duration(g.sampler.IntN(24))*time.Hour + time.Duration(g.sampler.IntN(60))*time.Minute)
	return admission, discharge
}

// identityToken derives the eight-character patient token from the sampler's
// stream so seeded runs reproduce IDs. The UUID version bits sit outside the
// first four bytes, so the token is plain stream entropy.
func (g *Generator) identityToken() string {
	id, err := uuid.NewRandomFromReader(g.sampler)
	if err != nil {
		// Read on a Sampler never returns an error.
		return "00000000"
	}
	return hex.EncodeToString(id[:4])
}

// weightedIndex draws an index with probability proportional to weights.
func (g *Generator) weightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	target := g.sampler.Float64() * total
	for i, w := range weights {
		target -= w
		if target < 0 {
			return i
		}
	}
	return len(weights) - 1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
