package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pumasi/core/src/utils/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestGraphClientTestSuite(t *testing.T) {
	suite.Run(t, new(GraphClientTestSuite))
}

type GraphClientTestSuite struct {
	suite.Suite
	config   *config.Config
	server   *httptest.Server
	client   *Client
	response string
	status   int
}

func (s *GraphClientTestSuite) SetupTest() {
	s.status = http.StatusOK
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
		s.Require().NotEmpty(req.Query)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		w.Write([]byte(s.response))
	}))

	s.config = config.Default()
	s.config.Indexer.Url = s.server.URL
	s.client = NewClient(s.config)
}

func (s *GraphClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *GraphClientTestSuite) TestGetJob() {
	s.response = `{"data":{"job":{
		"id":"1","client":"0xc1","freelancer":"0x0000000000000000000000000000000000000000",
		"status":"Open","budget":"1000","deadline":"1750000000","createdAt":"1748000000","updatedAt":"1748000000",
		"metadataRef":"ipfs://meta1",
		"applications":[{"id":"a1","jobId":"1","freelancer":"0xf1","status":"Pending","proposalRef":"ipfs://p1","createdAt":"1748000100"}]
	}}}`

	job, err := s.client.GetJob(context.Background(), "1")
	assert.NoError(s.T(), err)
	s.Require().NotNil(job)
	assert.Equal(s.T(), "Open", job.Status)
	assert.EqualValues(s.T(), 1748000000, job.CreatedAt)
	assert.Len(s.T(), job.Applications, 1)
}

func (s *GraphClientTestSuite) TestGetJobMissing() {
	s.response = `{"data":{"job":null}}`

	job, err := s.client.GetJob(context.Background(), "404")
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), job)
}

func (s *GraphClientTestSuite) TestGraphQLErrors() {
	s.response = `{"data":null,"errors":[{"message":"too complex"}]}`

	_, err := s.client.GetJob(context.Background(), "1")
	assert.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "too complex")
}

func (s *GraphClientTestSuite) TestHttpErrorStatus() {
	s.status = http.StatusBadGateway
	s.response = `upstream broken`

	_, err := s.client.GetActiveDisputes(context.Background())
	assert.Error(s.T(), err)
}
