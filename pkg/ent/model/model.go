package model

import "time"

// Model creates database tables used by the uploader. It is meant for
// development and test databases; production tables belong to the
// student-information system.
type Model interface {
	// Migrate creates or updates history and student tables.
	Migrate() error
}

// Screening is a record of screening history. A student has one record per
// screening, distinguished by SQ.
type Screening struct {
	// PID is the student ID.
	PID int `gorm:"column:pid;primary_key;auto_increment:false"`

	// SQ is a sequence number of the student's screenings starting at 1.
	SQ int `gorm:"column:sq;primary_key;auto_increment:false"`

	// GR is the grade of the student at the time of screening.
	GR int `gorm:"column:gr;type:smallint"`

	// SR, SL and PF keep the screening status.
	SR string `gorm:"column:sr;type:varchar(3)"`
	SL string `gorm:"column:sl;type:varchar(3)"`
	PF string `gorm:"column:pf;type:varchar(3)"`

	// TD is the date of screening.
	TD time.Time `gorm:"column:td;type:date;index:screening_date"`

	// SCL is the school code, NULL when unknown.
	SCL *int `gorm:"column:scl;type:smallint"`

	// IN is the submitter tag.
	IN string `gorm:"column:in;type:varchar(10)"`
}

// Student is a row of the student directory.
type Student struct {
	// ID is the student ID.
	ID int `gorm:"column:id;primary_key;auto_increment:false"`

	// GR is the current grade.
	GR int `gorm:"column:gr;type:smallint"`

	// DEL is not zero for deleted records.
	DEL int `gorm:"column:del;type:smallint;not null;default:0"`

	// TG is a non-empty tag for transferred students.
	TG string `gorm:"column:tg;type:varchar(1);not null;default:''"`
}
