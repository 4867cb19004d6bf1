package reconcile

import (
	"context"

	"github.com/pumasi/core/src/utils/eth"
	"github.com/pumasi/core/src/utils/graph"
	"github.com/pumasi/core/src/utils/model"
)

// Narrow views of the clients the loader reads from, so tests can swap
// in fakes without a network

type Indexer interface {
	GetJobs(ctx context.Context, skip int) ([]graph.JobSnapshot, error)
	GetJob(ctx context.Context, jobId string) (*graph.JobSnapshot, error)
	GetJobsByClient(ctx context.Context, client string) ([]graph.JobSnapshot, error)
	GetJobsByFreelancer(ctx context.Context, freelancer string) ([]graph.JobSnapshot, error)
	GetApplicationsByFreelancer(ctx context.Context, freelancer string) ([]graph.ApplicationSnapshot, error)
	GetDisputeByJob(ctx context.Context, jobId string) (*graph.DisputeSnapshot, error)
	GetActiveDisputes(ctx context.Context) ([]graph.DisputeSnapshot, error)
	GetUser(ctx context.Context, address string) (*graph.UserSnapshot, error)
	GetReviewsByReviewee(ctx context.Context, reviewee string, skip int) ([]graph.ReviewSnapshot, error)
}

type BlobGetter interface {
	GetJSON(ctx context.Context, ref string, out any) error
}

type Ledger interface {
	GetJob(ctx context.Context, jobId string) (*eth.JobState, error)
}

type OverrideSource interface {
	GetOverride(jobId string) (*model.Override, error)
	HiddenApplicationIds() (map[string]bool, error)
}
