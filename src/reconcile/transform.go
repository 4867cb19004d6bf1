package reconcile

import (
	"context"
	"time"

	"github.com/pumasi/core/src/utils/blob"
	"github.com/pumasi/core/src/utils/graph"
	"github.com/pumasi/core/src/utils/model"
)

// Placeholders shown when a metadata blob cannot be fetched. The read
// still succeeds, marked degraded.
const (
	placeholderTitle       = "Untitled job"
	placeholderDescription = "Details temporarily unavailable"
)

const (
	defaultEvidenceWindow = 7 * 24 * time.Hour
	defaultVoteWindow     = 10 * 24 * time.Hour
)

func unixTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}

// toJob merges one snapshot with its metadata blob and applies the
// effective-status rules. Hiding is display-only and must not change
// any effective status, so the rules always run on the full application
// set and hidden ones are only flagged.
func (self *Loader) toJob(ctx context.Context, snapshot *graph.JobSnapshot, hidden map[string]bool, override *model.Override, now time.Time) (out model.Job) {
	out = model.Job{
		Id:          snapshot.Id,
		Client:      snapshot.Client,
		Freelancer:  snapshot.Freelancer,
		RawStatus:   model.ParseJobStatus(snapshot.Status),
		Status:      model.ParseJobStatus(snapshot.Status),
		Budget:      snapshot.Budget,
		Deadline:    unixTime(snapshot.Deadline),
		CreatedAt:   unixTime(snapshot.CreatedAt),
		UpdatedAt:   unixTime(snapshot.UpdatedAt),
		MetadataRef: snapshot.MetadataRef,
	}

	var metadata blob.JobMetadata
	err := self.blob.GetJSON(ctx, snapshot.MetadataRef, &metadata)
	if err != nil {
		self.log.WithError(err).WithField("job_id", snapshot.Id).Debug("Job metadata unavailable, degrading")
		self.report.Errors.BlobFetch.Inc()
		self.report.State.DegradedLoads.Inc()
		out.Degraded = true
		out.Title = placeholderTitle
		out.Description = placeholderDescription
	} else {
		out.Title = metadata.Title
		out.Description = metadata.Description
		out.Category = metadata.Category
		out.Skills = metadata.Skills
	}

	for _, milestone := range snapshot.Milestones {
		out.Milestones = append(out.Milestones, model.Milestone{
			Index:  milestone.Index,
			Amount: milestone.Amount,
			Status: model.MilestoneStatus(milestone.Status),
		})
	}

	jobHasFreelancer := model.AddressSet(snapshot.Freelancer)
	raw := make([]model.Application, 0, len(snapshot.Applications))
	for _, application := range snapshot.Applications {
		raw = append(raw, self.toApplication(ctx, &application))
	}

	jobFreelancer := ""
	if jobHasFreelancer {
		jobFreelancer = snapshot.Freelancer
	}
	for i := range raw {
		raw[i].Status = EffectiveApplicationStatus(raw[i], jobFreelancer, raw)
		raw[i].Hidden = hidden[raw[i].Id]
	}

	out.Status = EffectiveJobStatus(out.RawStatus, jobHasFreelancer, raw, override, now)
	out.Applications = raw

	self.report.State.JobsLoaded.Inc()
	return
}

func (self *Loader) toApplication(ctx context.Context, snapshot *graph.ApplicationSnapshot) (out model.Application) {
	out = model.Application{
		Id:          snapshot.Id,
		JobId:       snapshot.JobId,
		Freelancer:  snapshot.Freelancer,
		RawStatus:   model.ParseApplicationStatus(snapshot.Status),
		Status:      model.ParseApplicationStatus(snapshot.Status),
		SubmittedAt: unixTime(snapshot.CreatedAt),
		ProposalRef: snapshot.ProposalRef,
	}

	var metadata blob.ProposalMetadata
	err := self.blob.GetJSON(ctx, snapshot.ProposalRef, &metadata)
	if err != nil {
		self.log.WithError(err).WithField("application_id", snapshot.Id).Debug("Proposal metadata unavailable, degrading")
		self.report.Errors.BlobFetch.Inc()
		out.Degraded = true
		out.CoverLetter = placeholderDescription
	} else {
		out.CoverLetter = metadata.CoverLetter
		out.ProposedTimeline = metadata.ProposedTimeline
		out.PortfolioLinks = metadata.PortfolioLinks
	}

	return
}

func (self *Loader) toDispute(ctx context.Context, snapshot *graph.DisputeSnapshot, job *model.Job) (out model.Dispute) {
	out = model.Dispute{
		Id:               snapshot.Id,
		JobId:            snapshot.JobId,
		Raiser:           snapshot.Raiser,
		Status:           model.ParseDisputeStatus(snapshot.Status),
		EvidenceDeadline: unixTime(snapshot.EvidenceDeadline),
		VoteDeadline:     unixTime(snapshot.VoteDeadline),
		CreatedAt:        unixTime(snapshot.CreatedAt),
		ResolvedAt:       unixTime(snapshot.ResolvedAt),
	}

	if job != nil {
		out.Client = job.Client
		out.Freelancer = job.Freelancer
	}

	// Older deployments do not index deadlines, derive the standard windows
	if out.EvidenceDeadline.IsZero() {
		out.EvidenceDeadline = out.CreatedAt.Add(defaultEvidenceWindow)
	}
	if out.VoteDeadline.IsZero() {
		out.VoteDeadline = out.CreatedAt.Add(defaultVoteWindow)
	}

	switch snapshot.Resolution {
	case "FullToClient":
		out.Resolution = model.ResolutionFullToClient
	case "FullToFreelancer":
		out.Resolution = model.ResolutionFullToFreelancer
	case "Split":
		out.Resolution = model.ResolutionSplit
	}

	if snapshot.ClientEvidenceRef != "" {
		out.ClientEvidence = self.toEvidence(ctx, out.Client, snapshot.ClientEvidenceRef)
	}
	if snapshot.FreelancerEvidenceRef != "" {
		out.FreelancerEvidence = self.toEvidence(ctx, out.Freelancer, snapshot.FreelancerEvidenceRef)
	}

	for _, vote := range snapshot.Votes {
		out.Votes = append(out.Votes, self.toVote(ctx, &vote))
	}

	return
}

func (self *Loader) toEvidence(ctx context.Context, submitter, ref string) (out *model.Evidence) {
	out = &model.Evidence{
		Submitter:   submitter,
		EvidenceRef: ref,
	}

	var metadata blob.EvidenceMetadata
	err := self.blob.GetJSON(ctx, ref, &metadata)
	if err != nil {
		self.log.WithError(err).WithField("ref", ref).Debug("Evidence blob unavailable, degrading")
		self.report.Errors.BlobFetch.Inc()
		out.Degraded = true
		return
	}
	out.Description = metadata.Description
	return
}

func (self *Loader) toVote(ctx context.Context, snapshot *graph.VoteSnapshot) (out model.Vote) {
	out = model.Vote{
		Arbitrator:   snapshot.Arbitrator,
		RationaleRef: snapshot.RationaleRef,
		CastAt:       unixTime(snapshot.Timestamp),
	}

	switch snapshot.Decision {
	case "FullToClient":
		out.Decision = model.ResolutionFullToClient
	case "FullToFreelancer":
		out.Decision = model.ResolutionFullToFreelancer
	case "Split":
		out.Decision = model.ResolutionSplit
	}

	var metadata blob.RationaleMetadata
	if err := self.blob.GetJSON(ctx, snapshot.RationaleRef, &metadata); err == nil {
		out.Rationale = metadata.Rationale
	}

	return
}

func (self *Loader) toReview(ctx context.Context, snapshot *graph.ReviewSnapshot) (out model.Review) {
	out = model.Review{
		Id:         snapshot.Id,
		JobId:      snapshot.JobId,
		Reviewer:   snapshot.Reviewer,
		Reviewee:   snapshot.Reviewee,
		Rating:     snapshot.Rating,
		CommentRef: snapshot.CommentRef,
		CreatedAt:  unixTime(snapshot.CreatedAt),
	}

	var metadata blob.ReviewMetadata
	err := self.blob.GetJSON(ctx, snapshot.CommentRef, &metadata)
	if err != nil {
		self.log.WithError(err).WithField("review_id", snapshot.Id).Debug("Review comment unavailable, degrading")
		self.report.Errors.BlobFetch.Inc()
		out.Degraded = true
		return
	}
	out.Comment = metadata.Comment
	return
}

func (self *Loader) toUser(ctx context.Context, snapshot *graph.UserSnapshot) (out model.User) {
	out = model.User{
		Address:         snapshot.Address,
		IsArbitrator:    snapshot.IsArbitrator,
		ArbitratorStake: snapshot.ArbitratorStake,
		CompletedJobs:   snapshot.CompletedJobs,
		AverageRating:   snapshot.AverageRating,
		ProfileRef:      snapshot.ProfileRef,
		JoinedAt:        unixTime(snapshot.JoinedAt),
	}

	if snapshot.ProfileRef == "" {
		return
	}

	var metadata blob.ProfileMetadata
	err := self.blob.GetJSON(ctx, snapshot.ProfileRef, &metadata)
	if err != nil {
		self.log.WithError(err).WithField("address", snapshot.Address).Debug("Profile blob unavailable, degrading")
		self.report.Errors.BlobFetch.Inc()
		out.Degraded = true
		return
	}
	out.Name = metadata.Name
	out.Bio = metadata.Bio
	out.Skills = metadata.Skills
	return
}
