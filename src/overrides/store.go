package overrides

import (
	"errors"
	"sync"
	"time"

	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/logger"
	"github.com/pumasi/core/src/utils/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store keeps the device-local state: optimistic status overrides and
// hidden application ids. Everything is namespaced to one acting
// address, two accounts on the same device never see each other's rows.
//
// Mutations run under one mutex as whole-record read-then-write units,
// a concurrent janitor sweep and a Set can not interleave halfway.
type Store struct {
	config *config.Config
	log    *logrus.Entry
	db     *gorm.DB
	actor  string

	mtx sync.Mutex
}

func NewStore(config *config.Config, db *gorm.DB) (self *Store) {
	self = new(Store)
	self.config = config
	self.log = logger.NewSublogger("override-store")
	self.db = db
	self.actor = config.Store.Actor
	return
}

// WithActor returns a view of the same database namespaced to a
// different acting address
func (self *Store) WithActor(actor string) (out *Store) {
	out = new(Store)
	out.config = self.config
	out.log = self.log
	out.db = self.db
	out.actor = actor
	return
}

// SetOverride stores an optimistic status for a job, replacing any
// previous one, with the configured TTL
func (self *Store) SetOverride(jobId string, status model.JobStatus) (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	now := time.Now()
	override := model.Override{
		JobId:     jobId,
		Actor:     self.actor,
		Status:    status,
		SetAt:     now,
		ExpiresAt: now.Add(self.config.Orchestrator.OverrideTTL),
	}

	return self.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}, {Name: "actor"}},
		UpdateAll: true,
	}).Create(&override).Error
}

// GetOverride returns the live override for a job or nil. An expired
// row is never returned, even before the janitor has swept it.
func (self *Store) GetOverride(jobId string) (out *model.Override, err error) {
	var override model.Override
	err = self.db.
		Where("job_id = ? AND actor = ?", jobId, self.actor).
		First(&override).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return
	}
	if !time.Now().Before(override.ExpiresAt) {
		return nil, nil
	}
	out = &override
	return
}

func (self *Store) ClearOverride(jobId string) (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	return self.db.
		Where("job_id = ? AND actor = ?", jobId, self.actor).
		Delete(&model.Override{}).
		Error
}

// Live returns all unexpired overrides for the acting address
func (self *Store) Live(now time.Time) (out []model.Override, err error) {
	err = self.db.
		Where("actor = ? AND expires_at > ?", self.actor, now).
		Find(&out).
		Error
	return
}

// Expired returns overrides whose TTL lapsed before now
func (self *Store) Expired(now time.Time) (out []model.Override, err error) {
	err = self.db.
		Where("actor = ? AND expires_at <= ?", self.actor, now).
		Find(&out).
		Error
	return
}

// Sweep deletes every expired override and reports how many went
func (self *Store) Sweep(now time.Time) (removed int64, err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	result := self.db.
		Where("actor = ? AND expires_at <= ?", self.actor, now).
		Delete(&model.Override{})
	return result.RowsAffected, result.Error
}

// Hide records a local-only rejection of an application. Idempotent,
// hiding twice is the same as hiding once. The ledger record stays
// untouched and the application's effective status never changes.
func (self *Store) Hide(applicationId, jobId string) (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	hidden := model.HiddenApplication{
		ApplicationId: applicationId,
		Actor:         self.actor,
		JobId:         jobId,
		HiddenAt:      time.Now(),
	}

	return self.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "application_id"}, {Name: "actor"}},
		DoNothing: true,
	}).Create(&hidden).Error
}

// Unhide restores a hidden application to view
func (self *Store) Unhide(applicationId string) (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	return self.db.
		Where("application_id = ? AND actor = ?", applicationId, self.actor).
		Delete(&model.HiddenApplication{}).
		Error
}

// HiddenApplicationIds returns the display filter set
func (self *Store) HiddenApplicationIds() (out map[string]bool, err error) {
	var rows []model.HiddenApplication
	err = self.db.
		Where("actor = ?", self.actor).
		Find(&rows).
		Error
	if err != nil {
		return
	}

	out = make(map[string]bool, len(rows))
	for _, row := range rows {
		out[row.ApplicationId] = true
	}
	return
}
