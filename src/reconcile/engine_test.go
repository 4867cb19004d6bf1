package reconcile

import (
	"testing"
	"time"

	"github.com/pumasi/core/src/utils/model"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func pending(id, freelancer string) model.Application {
	return model.Application{Id: id, Freelancer: freelancer, RawStatus: model.ApplicationStatusPending}
}

func accepted(id, freelancer string) model.Application {
	return model.Application{Id: id, Freelancer: freelancer, RawStatus: model.ApplicationStatusAccepted}
}

func TestJobStatusLagPaperedOver(t *testing.T) {
	// Client hires, ledger confirms, indexer still reports the job open
	status := EffectiveJobStatus(model.JobStatusOpen, true, nil, nil, now)
	assert.Equal(t, model.JobStatusInProgress, status)

	// Indexer saw the acceptance but not yet the assignment
	status = EffectiveJobStatus(model.JobStatusOpen, false, []model.Application{accepted("a1", "0xf1")}, nil, now)
	assert.Equal(t, model.JobStatusInProgress, status)

	// Nothing happened yet, open stays open
	status = EffectiveJobStatus(model.JobStatusOpen, false, []model.Application{pending("a1", "0xf1")}, nil, now)
	assert.Equal(t, model.JobStatusOpen, status)
}

func TestJobStatusNonOpenUnchanged(t *testing.T) {
	for _, raw := range []model.JobStatus{
		model.JobStatusInProgress,
		model.JobStatusDelivered,
		model.JobStatusCompleted,
		model.JobStatusDisputed,
		model.JobStatusCancelled,
	} {
		status := EffectiveJobStatus(raw, true, []model.Application{accepted("a1", "0xf1")}, nil, now)
		assert.Equal(t, raw, status)
	}
}

func TestJobStatusOverride(t *testing.T) {
	override := &model.Override{
		JobId:     "j1",
		Status:    model.JobStatusDelivered,
		SetAt:     now,
		ExpiresAt: now.Add(15 * time.Second),
	}

	// Live override wins over a stale raw status
	status := EffectiveJobStatus(model.JobStatusInProgress, true, nil, override, now)
	assert.Equal(t, model.JobStatusDelivered, status)

	// Expired override is ignored, even by a second
	status = EffectiveJobStatus(model.JobStatusInProgress, true, nil, override, now.Add(15*time.Second))
	assert.Equal(t, model.JobStatusInProgress, status)

	// An override can never take the view backwards past the raw status
	stale := &model.Override{JobId: "j1", Status: model.JobStatusInProgress, SetAt: now, ExpiresAt: now.Add(15 * time.Second)}
	status = EffectiveJobStatus(model.JobStatusCompleted, true, nil, stale, now)
	assert.Equal(t, model.JobStatusCompleted, status)
}

func TestEffectiveStatusNeverRegresses(t *testing.T) {
	statuses := []model.JobStatus{
		model.JobStatusOpen,
		model.JobStatusInProgress,
		model.JobStatusDelivered,
		model.JobStatusCompleted,
		model.JobStatusDisputed,
		model.JobStatusCancelled,
	}
	overrides := append([]model.JobStatus{}, statuses...)

	for _, raw := range statuses {
		for _, overrideStatus := range overrides {
			override := &model.Override{Status: overrideStatus, ExpiresAt: now.Add(time.Minute)}
			effective := EffectiveJobStatus(raw, false, nil, override, now)
			assert.GreaterOrEqual(t, effective.Rank(), raw.Rank(),
				"raw %s override %s regressed to %s", raw, overrideStatus, effective)
		}
	}
}

func TestApplicationStatusTerminalKept(t *testing.T) {
	application := accepted("a1", "0xf1")
	status := EffectiveApplicationStatus(application, "0xf2", nil)
	assert.Equal(t, model.ApplicationStatusAccepted, status)

	application = model.Application{Id: "a1", Freelancer: "0xf1", RawStatus: model.ApplicationStatusRejected}
	status = EffectiveApplicationStatus(application, "", nil)
	assert.Equal(t, model.ApplicationStatusRejected, status)
}

func TestApplicationStatusLosersRejected(t *testing.T) {
	mine := pending("a1", "0xf1")
	winner := accepted("a2", "0xf2")

	// Job went to someone else
	status := EffectiveApplicationStatus(mine, "0xf2", []model.Application{mine, winner})
	assert.Equal(t, model.ApplicationStatusRejected, status)

	// Assignment not indexed yet, accepted sibling is enough
	status = EffectiveApplicationStatus(mine, "", []model.Application{mine, winner})
	assert.Equal(t, model.ApplicationStatusRejected, status)

	// The winner itself never counts as its own sibling
	status = EffectiveApplicationStatus(winner, "0xf2", []model.Application{mine, winner})
	assert.Equal(t, model.ApplicationStatusAccepted, status)

	// No decision yet
	status = EffectiveApplicationStatus(mine, "", []model.Application{mine, pending("a2", "0xf2")})
	assert.Equal(t, model.ApplicationStatusPending, status)
}

func TestNeedsAssignment(t *testing.T) {
	applications := []model.Application{pending("a1", "0xf1"), accepted("a2", "0xf2")}

	freelancer, applicationId, needed := NeedsAssignment(model.JobStatusOpen, false, applications)
	assert.True(t, needed)
	assert.Equal(t, "0xf2", freelancer)
	assert.Equal(t, "a2", applicationId)

	// Freelancer already assigned, nothing to repair
	_, _, needed = NeedsAssignment(model.JobStatusOpen, true, applications)
	assert.False(t, needed)

	// No acceptance yet
	_, _, needed = NeedsAssignment(model.JobStatusOpen, false, []model.Application{pending("a1", "0xf1")})
	assert.False(t, needed)

	// Cancelled or progressed jobs are never repaired
	_, _, needed = NeedsAssignment(model.JobStatusCancelled, false, applications)
	assert.False(t, needed)
	_, _, needed = NeedsAssignment(model.JobStatusInProgress, false, applications)
	assert.False(t, needed)
}

func TestApplicationStatusAddressCase(t *testing.T) {
	mine := pending("a1", "0xf1")
	winner := accepted("a2", "0xf2")

	// The ledger fallback reports checksummed addresses while the
	// indexer lowercases them, casing must not flip the outcome
	status := EffectiveApplicationStatus(winner, "0xF2", []model.Application{mine, winner})
	assert.Equal(t, model.ApplicationStatusAccepted, status)

	status = EffectiveApplicationStatus(mine, "0xF2", []model.Application{mine, winner})
	assert.Equal(t, model.ApplicationStatusRejected, status)
}
