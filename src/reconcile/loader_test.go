package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pumasi/core/src/utils/blob"
	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/eth"
	"github.com/pumasi/core/src/utils/graph"
	"github.com/pumasi/core/src/utils/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const zeroAddr = "0x0000000000000000000000000000000000000000"

type fakeIndexer struct {
	jobs    map[string]*graph.JobSnapshot
	reviews []graph.ReviewSnapshot
	down    bool
}

var errIndexerDown = errors.New("indexer down")

func (self *fakeIndexer) GetJobs(ctx context.Context, skip int) (out []graph.JobSnapshot, err error) {
	if self.down {
		return nil, errIndexerDown
	}
	for _, job := range self.jobs {
		out = append(out, *job)
	}
	return
}

func (self *fakeIndexer) GetJob(ctx context.Context, jobId string) (*graph.JobSnapshot, error) {
	if self.down {
		return nil, errIndexerDown
	}
	return self.jobs[jobId], nil
}

func (self *fakeIndexer) GetJobsByClient(ctx context.Context, client string) ([]graph.JobSnapshot, error) {
	return self.GetJobs(ctx, 0)
}

func (self *fakeIndexer) GetJobsByFreelancer(ctx context.Context, freelancer string) ([]graph.JobSnapshot, error) {
	return self.GetJobs(ctx, 0)
}

func (self *fakeIndexer) GetApplicationsByFreelancer(ctx context.Context, freelancer string) (out []graph.ApplicationSnapshot, err error) {
	if self.down {
		return nil, errIndexerDown
	}
	for _, job := range self.jobs {
		for _, application := range job.Applications {
			if application.Freelancer == freelancer {
				out = append(out, application)
			}
		}
	}
	return
}

func (self *fakeIndexer) GetDisputeByJob(ctx context.Context, jobId string) (*graph.DisputeSnapshot, error) {
	return nil, nil
}

func (self *fakeIndexer) GetActiveDisputes(ctx context.Context) ([]graph.DisputeSnapshot, error) {
	return nil, nil
}

func (self *fakeIndexer) GetUser(ctx context.Context, address string) (*graph.UserSnapshot, error) {
	return nil, nil
}

func (self *fakeIndexer) GetReviewsByReviewee(ctx context.Context, reviewee string, skip int) (out []graph.ReviewSnapshot, err error) {
	if self.down {
		return nil, errIndexerDown
	}
	for _, review := range self.reviews {
		if model.SameAddress(review.Reviewee, reviewee) {
			out = append(out, review)
		}
	}
	return
}

type fakeBlobs struct {
	blobs map[string]any
}

func (self *fakeBlobs) GetJSON(ctx context.Context, ref string, out any) error {
	payload, ok := self.blobs[ref]
	if !ok {
		return blob.ErrNotFound
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

type fakeLedger struct {
	jobs map[string]*eth.JobState
}

func (self *fakeLedger) GetJob(ctx context.Context, jobId string) (*eth.JobState, error) {
	state, ok := self.jobs[jobId]
	if !ok {
		return nil, errors.New("unknown job")
	}
	return state, nil
}

type fakeOverrides struct {
	overrides map[string]*model.Override
	hidden    map[string]bool
}

func (self *fakeOverrides) GetOverride(jobId string) (*model.Override, error) {
	return self.overrides[jobId], nil
}

func (self *fakeOverrides) HiddenApplicationIds() (map[string]bool, error) {
	return self.hidden, nil
}

func TestLoaderTestSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}

type LoaderTestSuite struct {
	suite.Suite
	config    *config.Config
	indexer   *fakeIndexer
	blobs     *fakeBlobs
	ledger    *fakeLedger
	overrides *fakeOverrides
	loader    *Loader
}

func (s *LoaderTestSuite) SetupTest() {
	s.config = config.Default()
	s.indexer = &fakeIndexer{jobs: map[string]*graph.JobSnapshot{}}
	s.blobs = &fakeBlobs{blobs: map[string]any{}}
	s.ledger = &fakeLedger{jobs: map[string]*eth.JobState{}}
	s.overrides = &fakeOverrides{overrides: map[string]*model.Override{}, hidden: map[string]bool{}}
	s.loader = NewLoader(s.config, s.indexer, s.blobs, s.ledger, s.overrides)
}

func (s *LoaderTestSuite) seedJob() {
	s.indexer.jobs["1"] = &graph.JobSnapshot{
		Id:          "1",
		Client:      "0xc1",
		Freelancer:  zeroAddr,
		Status:      "Open",
		Budget:      "1000",
		CreatedAt:   1748000000,
		MetadataRef: "ipfs://meta1",
		Applications: []graph.ApplicationSnapshot{
			{Id: "a1", JobId: "1", Freelancer: "0xf1", Status: "Pending", ProposalRef: "ipfs://prop1", CreatedAt: 1748000100},
			{Id: "a2", JobId: "1", Freelancer: "0xf2", Status: "Pending", ProposalRef: "ipfs://prop2", CreatedAt: 1748000200},
		},
	}
	s.blobs.blobs["ipfs://meta1"] = blob.JobMetadata{Title: "Fix my roof", Description: "It leaks", Category: "repair"}
	s.blobs.blobs["ipfs://prop1"] = blob.ProposalMetadata{CoverLetter: "I fix roofs for a living"}
}

func (s *LoaderTestSuite) TestJobWithMetadata() {
	s.seedJob()

	job, err := s.loader.GetJob(context.Background(), "1")
	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), job)
	assert.Equal(s.T(), "Fix my roof", job.Title)
	assert.False(s.T(), job.Degraded)
	assert.Equal(s.T(), model.JobStatusOpen, job.Status)
	assert.Len(s.T(), job.Applications, 2)

	// Second application's blob is missing, it degrades alone
	assert.False(s.T(), job.Applications[0].Degraded)
	assert.True(s.T(), job.Applications[1].Degraded)
}

func (s *LoaderTestSuite) TestMissingMetadataDegrades() {
	s.seedJob()
	delete(s.blobs.blobs, "ipfs://meta1")

	job, err := s.loader.GetJob(context.Background(), "1")
	assert.NoError(s.T(), err)
	assert.True(s.T(), job.Degraded)
	assert.Equal(s.T(), placeholderTitle, job.Title)
	// Ledger-derived fields survive
	assert.Equal(s.T(), "1000", job.Budget)
}

func (s *LoaderTestSuite) TestAcceptedSiblingReconciled() {
	s.seedJob()
	s.indexer.jobs["1"].Applications[1].Status = "Accepted"

	job, err := s.loader.GetJob(context.Background(), "1")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), model.JobStatusInProgress, job.Status)
	assert.Equal(s.T(), model.ApplicationStatusRejected, job.Applications[0].Status)
	assert.Equal(s.T(), model.ApplicationStatusAccepted, job.Applications[1].Status)
}

func (s *LoaderTestSuite) TestHiddenApplicationDoesNotChangeStatus() {
	s.seedJob()
	s.indexer.jobs["1"].Applications[1].Status = "Accepted"
	s.overrides.hidden["a2"] = true

	job, err := s.loader.GetJob(context.Background(), "1")
	assert.NoError(s.T(), err)

	// The hide is a display filter, reconciliation still sees a2
	assert.True(s.T(), job.Applications[1].Hidden)
	assert.Equal(s.T(), model.JobStatusInProgress, job.Status)
	assert.Equal(s.T(), model.ApplicationStatusRejected, job.Applications[0].Status)
}

func (s *LoaderTestSuite) TestIndexerDownFallsBackToLedger() {
	s.indexer.down = true
	s.ledger.jobs["1"] = &eth.JobState{
		Client:      common.HexToAddress("0xc1"),
		Status:      model.JobStatusInProgress,
		Budget:      "1000",
		Deadline:    time.Now().Add(24 * time.Hour),
		MetadataRef: "ipfs://meta1",
	}

	job, err := s.loader.GetJob(context.Background(), "1")
	assert.NoError(s.T(), err)
	assert.True(s.T(), job.Degraded)
	assert.Equal(s.T(), model.JobStatusInProgress, job.Status)
	assert.Empty(s.T(), job.Applications)
}

func (s *LoaderTestSuite) TestIndexerDownEmptyListing() {
	s.indexer.down = true

	jobs, err := s.loader.GetJobs(context.Background(), 0)
	assert.Error(s.T(), err)
	assert.Empty(s.T(), jobs)
}

func (s *LoaderTestSuite) TestOwnApplicationsReconciled() {
	s.seedJob()
	s.indexer.jobs["1"].Applications[1].Status = "Accepted"
	s.indexer.jobs["1"].Freelancer = "0xf2"

	applications, err := s.loader.GetApplicationsByFreelancer(context.Background(), "0xf1")
	assert.NoError(s.T(), err)
	assert.Len(s.T(), applications, 1)
	assert.Equal(s.T(), model.ApplicationStatusRejected, applications[0].Status)
	assert.Equal(s.T(), model.ApplicationStatusPending, applications[0].RawStatus)
}

func (s *LoaderTestSuite) TestReviewsWithComments() {
	s.indexer.reviews = []graph.ReviewSnapshot{
		{Id: "r1", JobId: "1", Reviewer: "0xc1", Reviewee: "0xf1", Rating: 5, CommentRef: "ipfs://rev1", CreatedAt: 1748000300},
		{Id: "r2", JobId: "2", Reviewer: "0xc2", Reviewee: "0xf1", Rating: 3, CommentRef: "ipfs://rev2", CreatedAt: 1748000400},
	}
	s.blobs.blobs["ipfs://rev1"] = blob.ReviewMetadata{Comment: "Roof no longer leaks"}

	reviews, err := s.loader.GetReviewsByUser(context.Background(), "0xF1", 0)
	assert.NoError(s.T(), err)
	s.Require().Len(reviews, 2)

	assert.Equal(s.T(), 5, reviews[0].Rating)
	assert.Equal(s.T(), "Roof no longer leaks", reviews[0].Comment)
	assert.False(s.T(), reviews[0].Degraded)
	assert.Equal(s.T(), time.Unix(1748000300, 0).UTC(), reviews[0].CreatedAt)

	// Missing comment blob degrades the one review, not the listing
	assert.Empty(s.T(), reviews[1].Comment)
	assert.True(s.T(), reviews[1].Degraded)
}

func (s *LoaderTestSuite) TestReviewsIndexerDown() {
	s.indexer.down = true

	reviews, err := s.loader.GetReviewsByUser(context.Background(), "0xf1", 0)
	assert.Error(s.T(), err)
	assert.Empty(s.T(), reviews)
}
