package model

import "time"

// Rows persisted in the device-local database. Table names follow gorm's
// pluralized defaults.

// Override is an optimistic status shown in place of the confirmed one
// until the indexer catches up or the TTL lapses
type Override struct {
	JobId     string    `gorm:"primaryKey"`
	Actor     string    `gorm:"primaryKey"`
	Status    JobStatus `gorm:"not null"`
	SetAt     time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// HiddenApplication records a unilateral, local-only rejection. The
// application stays pending on the ledger
type HiddenApplication struct {
	ApplicationId string    `gorm:"primaryKey"`
	Actor         string    `gorm:"primaryKey"`
	JobId         string    `gorm:"not null;index"`
	HiddenAt      time.Time `gorm:"not null"`
}

// Operation tracks a multi-step ledger workflow so an interrupted run can
// be resumed or repaired after restart
type Operation struct {
	Id            string    `gorm:"primaryKey"`
	Kind          string    `gorm:"not null;index"`
	Step          string    `gorm:"not null"`
	JobId         string    `gorm:"not null;index"`
	ApplicationId string    `gorm:"not null"`
	Freelancer    string    `gorm:"not null"`
	TxHash        string    `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

const (
	OperationKindHire = "hire"

	OperationStepAccepting = "accepting"
	OperationStepAssigning = "assigning"
	OperationStepDone      = "done"
)
