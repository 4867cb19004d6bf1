package reconcile

import (
	"time"

	"github.com/pumasi/core/src/utils/model"
)

// Pure reconciliation rules. No I/O, no clock reads, everything the
// decision depends on comes in as an argument, so the same inputs always
// produce the same outputs.

// EffectiveJobStatus computes the status a job should display given a
// possibly stale indexer snapshot.
//
// An unexpired local override wins, but only while it does not regress
// below the raw status. Otherwise the indexer lagging one step behind a
// hire is papered over: an open job with a freelancer assigned, or with
// an accepted application, already is in progress even if the snapshot
// has not caught up.
func EffectiveJobStatus(raw model.JobStatus, freelancerSet bool, applications []model.Application, override *model.Override, now time.Time) model.JobStatus {
	if override != nil && now.Before(override.ExpiresAt) && !override.Status.IsBefore(raw) {
		return override.Status
	}

	if raw == model.JobStatusOpen {
		if freelancerSet || hasAccepted(applications, "") {
			return model.JobStatusInProgress
		}
	}

	return raw
}

// hasAccepted reports whether any application other than excludeId is
// accepted on the ledger
func hasAccepted(applications []model.Application, excludeId string) bool {
	for _, application := range applications {
		if application.Id == excludeId {
			continue
		}
		if application.RawStatus == model.ApplicationStatusAccepted {
			return true
		}
	}
	return false
}

// EffectiveApplicationStatus computes the status an application should
// display given its job and sibling applications.
//
// Ledger-terminal statuses are kept as-is. A pending application whose
// job went to someone else is effectively rejected, whether the snapshot
// shows that via the assigned freelancer or only via an accepted sibling.
func EffectiveApplicationStatus(application model.Application, jobFreelancer string, siblings []model.Application) model.ApplicationStatus {
	if application.RawStatus.IsTerminal() {
		return application.RawStatus
	}

	if jobFreelancer != "" && !model.SameAddress(jobFreelancer, application.Freelancer) {
		return model.ApplicationStatusRejected
	}

	if hasAccepted(siblings, application.Id) {
		return model.ApplicationStatusRejected
	}

	return model.ApplicationStatusPending
}

// NeedsAssignment detects a half-finished hire: the application was
// accepted but the freelancer was never assigned on the job. This is a
// named repair condition, not an error.
func NeedsAssignment(raw model.JobStatus, freelancerSet bool, applications []model.Application) (freelancer string, applicationId string, needed bool) {
	if raw != model.JobStatusOpen || freelancerSet {
		return
	}
	for _, application := range applications {
		if application.RawStatus == model.ApplicationStatusAccepted {
			return application.Freelancer, application.Id, true
		}
	}
	return
}
