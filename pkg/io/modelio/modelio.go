package modelio

import (
	"github.com/gnames/screenload/pkg/ent/model"
	"github.com/jinzhu/gorm"
)

type modelio struct {
	db      *gorm.DB
	history string
	student string
}

// New returns a new instance of Model for given table names.
func New(db *gorm.DB, history, student string) model.Model {
	res := modelio{db: db, history: history, student: student}
	return &res
}

// Migrate creates tables in the database.
func (m *modelio) Migrate() error {
	err := m.db.Table(m.history).AutoMigrate(&model.Screening{}).Error
	if err != nil {
		return err
	}
	return m.db.Table(m.student).AutoMigrate(&model.Student{}).Error
}
