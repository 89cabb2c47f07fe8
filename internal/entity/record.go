package entity

import "time"

// PersonalDetails is the fixed field set read from the region of the referral
// form above the test checklist. JSON keys match the printed form labels;
// declaration order is the serialization order of the persisted artifact.
type PersonalDetails struct {
	Name                 string `json:"Name"`
	Age                  int    `json:"Age"`
	Sex                  string `json:"Sex"`
	RefDoctor            string `json:"Ref.Doctor"`
	ProvisionalDiagnosis string `json:"Provisional Diagnosis"`
	HODiabetes           string `json:"H/O Diabetes"`
	OtherIllnesses       string `json:"Any Other Illnesses"`
}

// ChecklistItem is one checked test: the verbatim printed label next to the
// marked checkbox, and the model's mark-clarity confidence in percent.
type ChecklistItem struct {
	Name            string `json:"name"`
	ConfidenceLevel int    `json:"confidence_level"`
}

// ChecklistSection groups checked tests under their printed section header
// (e.g. "CT FACILITIES"). Sections with no surviving items are never emitted.
type ChecklistSection struct {
	Section string          `json:"section"`
	Items   []ChecklistItem `json:"items"`
}

// MergedRecord is the union of the two independent extractions. Both fields
// are always present in the serialized form, even when a side is empty.
type MergedRecord struct {
	PersonalDetails      PersonalDetails    `json:"personal_details"`
	MedicalPrescriptions []ChecklistSection `json:"medical_prescriptions"`
}

// PersistedRecord is a MergedRecord after it has been written to the store.
type PersistedRecord struct {
	Key       string       `json:"key"`
	Timestamp time.Time    `json:"timestamp"`
	Record    MergedRecord `json:"record"`
}
