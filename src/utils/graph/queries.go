package graph

import (
	"context"
	"strings"
)

const jobFields = `
	id
	client
	freelancer
	status
	budget
	deadline
	createdAt
	updatedAt
	metadataRef
	milestones { index amount status }
	applications { id jobId freelancer status proposalRef createdAt }
`

const disputeFields = `
	id
	jobId
	raiser
	status
	resolution
	clientEvidenceRef
	freelancerEvidenceRef
	evidenceDeadline
	voteDeadline
	createdAt
	resolvedAt
	votes { arbitrator decision rationaleRef timestamp }
`

func (self *Client) GetJobs(ctx context.Context, skip int) (out []JobSnapshot, err error) {
	var data struct {
		Jobs []JobSnapshot `json:"jobs"`
	}
	err = self.query(ctx, `query($first: Int!, $skip: Int!) {
		jobs(first: $first, skip: $skip, orderBy: createdAt, orderDirection: desc) {`+jobFields+`}
	}`, map[string]any{"first": self.config.Indexer.PageLimit, "skip": skip}, &data)
	if err != nil {
		return
	}
	out = data.Jobs
	return
}

func (self *Client) GetJob(ctx context.Context, jobId string) (out *JobSnapshot, err error) {
	var data struct {
		Job *JobSnapshot `json:"job"`
	}
	err = self.query(ctx, `query($id: ID!) {
		job(id: $id) {`+jobFields+`}
	}`, map[string]any{"id": jobId}, &data)
	if err != nil {
		return
	}
	out = data.Job
	return
}

func (self *Client) GetJobsByClient(ctx context.Context, client string) (out []JobSnapshot, err error) {
	var data struct {
		Jobs []JobSnapshot `json:"jobs"`
	}
	err = self.query(ctx, `query($client: String!) {
		jobs(where: {client: $client}, orderBy: createdAt, orderDirection: desc) {`+jobFields+`}
	}`, map[string]any{"client": strings.ToLower(client)}, &data)
	if err != nil {
		return
	}
	out = data.Jobs
	return
}

func (self *Client) GetJobsByFreelancer(ctx context.Context, freelancer string) (out []JobSnapshot, err error) {
	var data struct {
		Jobs []JobSnapshot `json:"jobs"`
	}
	err = self.query(ctx, `query($freelancer: String!) {
		jobs(where: {freelancer: $freelancer}, orderBy: createdAt, orderDirection: desc) {`+jobFields+`}
	}`, map[string]any{"freelancer": strings.ToLower(freelancer)}, &data)
	if err != nil {
		return
	}
	out = data.Jobs
	return
}

func (self *Client) GetApplicationsByJob(ctx context.Context, jobId string) (out []ApplicationSnapshot, err error) {
	var data struct {
		Applications []ApplicationSnapshot `json:"applications"`
	}
	err = self.query(ctx, `query($jobId: String!) {
		applications(where: {jobId: $jobId}, orderBy: createdAt, orderDirection: asc) {
			id jobId freelancer status proposalRef createdAt
		}
	}`, map[string]any{"jobId": jobId}, &data)
	if err != nil {
		return
	}
	out = data.Applications
	return
}

func (self *Client) GetApplicationsByFreelancer(ctx context.Context, freelancer string) (out []ApplicationSnapshot, err error) {
	var data struct {
		Applications []ApplicationSnapshot `json:"applications"`
	}
	err = self.query(ctx, `query($freelancer: String!) {
		applications(where: {freelancer: $freelancer}, orderBy: createdAt, orderDirection: desc) {
			id jobId freelancer status proposalRef createdAt
		}
	}`, map[string]any{"freelancer": strings.ToLower(freelancer)}, &data)
	if err != nil {
		return
	}
	out = data.Applications
	return
}

func (self *Client) GetDisputeByJob(ctx context.Context, jobId string) (out *DisputeSnapshot, err error) {
	var data struct {
		Disputes []DisputeSnapshot `json:"disputes"`
	}
	err = self.query(ctx, `query($jobId: String!) {
		disputes(where: {jobId: $jobId}, first: 1) {`+disputeFields+`}
	}`, map[string]any{"jobId": jobId}, &data)
	if err != nil {
		return
	}
	if len(data.Disputes) > 0 {
		out = &data.Disputes[0]
	}
	return
}

func (self *Client) GetActiveDisputes(ctx context.Context) (out []DisputeSnapshot, err error) {
	var data struct {
		Disputes []DisputeSnapshot `json:"disputes"`
	}
	err = self.query(ctx, `query {
		disputes(where: {status_not: Resolved}, orderBy: createdAt, orderDirection: desc) {`+disputeFields+`}
	}`, nil, &data)
	if err != nil {
		return
	}
	out = data.Disputes
	return
}

func (self *Client) GetUser(ctx context.Context, address string) (out *UserSnapshot, err error) {
	var data struct {
		User *UserSnapshot `json:"user"`
	}
	err = self.query(ctx, `query($address: ID!) {
		user(id: $address) {
			address isArbitrator arbitratorStake completedJobs averageRating profileRef joinedAt
		}
	}`, map[string]any{"address": strings.ToLower(address)}, &data)
	if err != nil {
		return
	}
	out = data.User
	return
}

func (self *Client) GetReviewsByReviewee(ctx context.Context, reviewee string, skip int) (out []ReviewSnapshot, err error) {
	var data struct {
		Reviews []ReviewSnapshot `json:"reviews"`
	}
	err = self.query(ctx, `query($reviewee: String!, $first: Int!, $skip: Int!) {
		reviews(where: {reviewee: $reviewee}, first: $first, skip: $skip, orderBy: createdAt, orderDirection: desc) {
			id jobId reviewer reviewee rating commentRef createdAt
		}
	}`, map[string]any{"reviewee": strings.ToLower(reviewee), "first": self.config.Indexer.PageLimit, "skip": skip}, &data)
	if err != nil {
		return
	}
	out = data.Reviews
	return
}
