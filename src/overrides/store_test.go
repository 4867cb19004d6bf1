package overrides

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

type StoreTestSuite struct {
	suite.Suite
	config *config.Config
	store  *Store
}

func (s *StoreTestSuite) SetupTest() {
	s.config = config.Default()
	name := strings.ReplaceAll(s.T().Name(), "/", "_")
	s.config.Store.Path = fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	s.config.Store.Actor = "0xc1"

	db, err := model.Connect(&s.config.Store)
	s.Require().NoError(err)
	s.store = NewStore(s.config, db)
}

func (s *StoreTestSuite) TestSetGetClear() {
	s.Require().NoError(s.store.SetOverride("1", model.JobStatusInProgress))

	override, err := s.store.GetOverride("1")
	assert.NoError(s.T(), err)
	s.Require().NotNil(override)
	assert.Equal(s.T(), model.JobStatusInProgress, override.Status)
	assert.WithinDuration(s.T(), time.Now().Add(s.config.Orchestrator.OverrideTTL), override.ExpiresAt, time.Second)

	// Setting again replaces the whole record
	s.Require().NoError(s.store.SetOverride("1", model.JobStatusDelivered))
	override, err = s.store.GetOverride("1")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), model.JobStatusDelivered, override.Status)

	s.Require().NoError(s.store.ClearOverride("1"))
	override, err = s.store.GetOverride("1")
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), override)
}

func (s *StoreTestSuite) TestExpiredNeverReturned() {
	s.config.Orchestrator.OverrideTTL = -time.Second
	s.Require().NoError(s.store.SetOverride("1", model.JobStatusInProgress))

	// Already past its TTL, invisible before any sweep runs
	override, err := s.store.GetOverride("1")
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), override)

	expired, err := s.store.Expired(time.Now())
	assert.NoError(s.T(), err)
	assert.Len(s.T(), expired, 1)
}

func (s *StoreTestSuite) TestSweep() {
	s.config.Orchestrator.OverrideTTL = -time.Second
	s.Require().NoError(s.store.SetOverride("1", model.JobStatusInProgress))
	s.config.Orchestrator.OverrideTTL = time.Minute
	s.Require().NoError(s.store.SetOverride("2", model.JobStatusDelivered))

	removed, err := s.store.Sweep(time.Now())
	assert.NoError(s.T(), err)
	assert.EqualValues(s.T(), 1, removed)

	// The live one survived
	live, err := s.store.Live(time.Now())
	assert.NoError(s.T(), err)
	assert.Len(s.T(), live, 1)
	assert.Equal(s.T(), "2", live[0].JobId)
}

func (s *StoreTestSuite) TestHideIdempotent() {
	s.Require().NoError(s.store.Hide("a1", "1"))
	s.Require().NoError(s.store.Hide("a1", "1"))

	hidden, err := s.store.HiddenApplicationIds()
	assert.NoError(s.T(), err)
	assert.Len(s.T(), hidden, 1)
	assert.True(s.T(), hidden["a1"])

	s.Require().NoError(s.store.Unhide("a1"))
	hidden, err = s.store.HiddenApplicationIds()
	assert.NoError(s.T(), err)
	assert.Empty(s.T(), hidden)
}

func (s *StoreTestSuite) TestActorNamespacing() {
	s.Require().NoError(s.store.SetOverride("1", model.JobStatusInProgress))
	s.Require().NoError(s.store.Hide("a1", "1"))

	other := s.store.WithActor("0xc2")

	override, err := other.GetOverride("1")
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), override)

	hidden, err := other.HiddenApplicationIds()
	assert.NoError(s.T(), err)
	assert.Empty(s.T(), hidden)

	// And the original actor still sees its rows
	override, err = s.store.GetOverride("1")
	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), override)
}
