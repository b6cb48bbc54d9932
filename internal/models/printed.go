package models

import "time"

// PrintedTest is a lab result as printed for a patient. PatientID is a loose
// reference and is NilObjectID when the submitter did not supply a valid one.
type PrintedTest struct {
	ID             ObjectID  `bson:"_id" json:"_id" gorm:"primaryKey;type:char(24)"`
	PatientID      ObjectID  `bson:"patient_id" json:"patient_id" gorm:"type:char(24);index;not null"`
	LabNo          float64   `bson:"lab_no" json:"lab_no" gorm:"not null"`
	Name           string    `bson:"name" json:"name" gorm:"size:255;not null"`
	Sex            string    `bson:"sex" json:"sex" gorm:"size:16;not null;index"`
	Age            string    `bson:"age" json:"age" gorm:"size:32;not null"`
	Time           time.Time `bson:"time" json:"time"`
	Specimen       string    `bson:"specimen,omitempty" json:"specimen,omitempty" gorm:"size:255"`
	ReferredBy     string    `bson:"referred_by,omitempty" json:"referred_by,omitempty" gorm:"size:255"`
	Date           time.Time `bson:"date" json:"date" gorm:"not null;index"`
	Investigation  string    `bson:"investigation,omitempty" json:"investigation,omitempty" gorm:"type:text"`
	Rate           *float64  `bson:"rate,omitempty" json:"rate,omitempty"`
	ReferenceRange string    `bson:"reference_range,omitempty" json:"reference_range,omitempty" gorm:"size:255"`
	Interpretation string    `bson:"interpretation,omitempty" json:"interpretation,omitempty" gorm:"type:text"`
	PriceNaira     *float64  `bson:"price_naira,omitempty" json:"price_naira,omitempty"`
	Remark         string    `bson:"remark,omitempty" json:"remark,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PrintedTestInput is one element of the tests array in POST /printed-tests.
type PrintedTestInput struct {
	PatientID      RefID   `json:"patient_id"`
	LabNo          *Number `json:"lab_no" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	Sex            string  `json:"sex" binding:"required"`
	Age            Text    `json:"age" binding:"required"`
	Time           string  `json:"time"`
	Specimen       string  `json:"specimen"`
	ReferredBy     string  `json:"referred_by"`
	Date           string  `json:"date"`
	Investigation  string  `json:"investigation"`
	Rate           *Number `json:"rate"`
	ReferenceRange string  `json:"reference_range"`
	Interpretation string  `json:"interpretation"`
	PriceNaira     *Number `json:"price_naira"`
	Remark         string  `json:"remark"`
}
