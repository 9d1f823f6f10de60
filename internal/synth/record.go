package synth

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Layouts used when serializing records to datasets.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Columns is the canonical dataset column order shared by every sink.
var Columns = []string{
	"PatientID", "Age", "Gender", "AdmissionDate", "DischargeDate", "Diagnosis",
	"LengthOfStay", "PriorAdmissions", "Medications", "ReadmittedWithin30Days",
	"BMI", "SmokingStatus", "AlcoholUse", "BloodPressure", "CholesterolLevel",
	"HbA1c", "FollowUpAppointmentScheduled", "InsuranceType", "RecordGeneratedAt",
}

// Flag is a boolean that serializes as 1 or 0, matching the dataset's
// integer booleans.
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	return []byte(f.String()), nil
}

// String returns the dataset cell form.
func (f Flag) String() string {
	if f {
		return "1"
	}
	return "0"
}

// Int returns 1 or 0 for sinks that store native integers.
func (f Flag) Int() int {
	if f {
		return 1
	}
	return 0
}

// BloodPressure is a systolic/diastolic pair rendered as "SYS/DIA".
type BloodPressure struct {
	Systolic  int
	Diastolic int
}

func (bp BloodPressure) String() string {
	return strconv.Itoa(bp.Systolic) + "/" + strconv.Itoa(bp.Diastolic)
}

func (bp BloodPressure) MarshalJSON() ([]byte, error) {
	return json.Marshal(bp.String())
}

// Record is one synthetic admission event. Field order matches the dataset
// column order. Records are immutable once returned by the generator and are
// never mutated after assembly.
type Record struct {
	PatientID       string
	Age             int
	Gender          string
	AdmissionDate   time.Time
	DischargeDate   time.Time
	Diagnosis       string
	LengthOfStay    int
	PriorAdmissions int
	Medications     []string
	Readmitted      Flag
	BMI             float64
	SmokingStatus   string
	AlcoholUse      string
	BloodPressure   BloodPressure
	Cholesterol     int
	HbA1c           float64
	FollowUp        Flag
	Insurance       string
	GeneratedAt     time.Time
}

// MedicationList renders the medication slice in the dataset's joined form.
func (r Record) MedicationList() string {
	return strings.Join(r.Medications, "; ")
}

// recordWire fixes the serialized key names, key order, and value formats for
// line-delimited output.
type recordWire struct {
	PatientID       string        `json:"PatientID"`
	Age             int           `json:"Age"`
	Gender          string        `json:"Gender"`
	AdmissionDate   string        `json:"AdmissionDate"`
	DischargeDate   string        `json:"DischargeDate"`
	Diagnosis       string        `json:"Diagnosis"`
	LengthOfStay    int           `json:"LengthOfStay"`
	PriorAdmissions int           `json:"PriorAdmissions"`
	Medications     string        `json:"Medications"`
	Readmitted      Flag          `json:"ReadmittedWithin30Days"`
	BMI             float64       `json:"BMI"`
	SmokingStatus   string        `json:"SmokingStatus"`
	AlcoholUse      string        `json:"AlcoholUse"`
	BloodPressure   BloodPressure `json:"BloodPressure"`
	Cholesterol     int           `json:"CholesterolLevel"`
	HbA1c           float64       `json:"HbA1c"`
	FollowUp        Flag          `json:"FollowUpAppointmentScheduled"`
	Insurance       string        `json:"InsuranceType"`
	GeneratedAt     string        `json:"RecordGeneratedAt"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordWire{
		PatientID:       r.PatientID,
		Age:             r.Age,
		Gender:          r.Gender,
		AdmissionDate:   r.AdmissionDate.Format(DateLayout),
		DischargeDate:   r.DischargeDate.Format(DateLayout),
		Diagnosis:       r.Diagnosis,
		LengthOfStay:    r.LengthOfStay,
		PriorAdmissions: r.PriorAdmissions,
		Medications:     r.MedicationList(),
		Readmitted:      r.Readmitted,
		BMI:             r.BMI,
		SmokingStatus:   r.SmokingStatus,
		AlcoholUse:      r.AlcoholUse,
		BloodPressure:   r.BloodPressure,
		Cholesterol:     r.Cholesterol,
		HbA1c:           r.HbA1c,
		FollowUp:        r.FollowUp,
		Insurance:       r.Insurance,
		GeneratedAt:     r.GeneratedAt.Format(TimestampLayout),
	})
}

// CSVRow renders the record as string cells in Columns order.
func (r Record) CSVRow() []string {
	return []string{
		r.PatientID,
		strconv.Itoa(r.Age),
		r.Gender,
		r.AdmissionDate.Format(DateLayout),
		r.DischargeDate.Format(DateLayout),
		r.Diagnosis,
		strconv.Itoa(r.LengthOfStay),
		strconv.Itoa(r.PriorAdmissions),
		r.MedicationList(),
		r.Readmitted.String(),
		strconv.FormatFloat(r.BMI, 'f', 1, 64),
		r.SmokingStatus,
		r.AlcoholUse,
		r.BloodPressure.String(),
		strconv.Itoa(r.Cholesterol),
		strconv.FormatFloat(r.HbA1c, 'f', 1, 64),
		r.FollowUp.String(),
		r.Insurance,
		r.GeneratedAt.Format(TimestampLayout),
	}
}

// CellValues renders the record as typed cells in Columns order, for sinks
// that store native numeric values.
func (r Record) CellValues() []any {
	return []any{
		r.PatientID,
		r.Age,
		r.Gender,
		r.AdmissionDate.Format(DateLayout),
		r.DischargeDate.Format(DateLayout),
		r.Diagnosis,
		r.LengthOfStay,
		r.PriorAdmissions,
		r.MedicationList(),
		r.Readmitted.Int(),
		r.BMI,
		r.SmokingStatus,
		r.AlcoholUse,
		r.BloodPressure.String(),
		r.Cholesterol,
		r.HbA1c,
		r.FollowUp.Int(),
		r.Insurance,
		r.GeneratedAt.Format(TimestampLayout),
	}
}
