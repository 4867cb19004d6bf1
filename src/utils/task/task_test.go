package task

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/pumasi/core/src/utils/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestTaskTestSuite(t *testing.T) {
	suite.Run(t, new(TaskTestSuite))
}

type TaskTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *TaskTestSuite) SetupSuite() {
	s.config = config.Default()
	s.config.StopTimeout = 2 * time.Second
}

func (s *TaskTestSuite) TestLifecycle() {
	var started, stopped atomic.Bool

	task := NewTask(s.config, "test").
		WithOnBeforeStart(func() error {
			started.Store(true)
			return nil
		}).
		WithOnAfterStop(func() {
			stopped.Store(true)
		}).
		WithSubtaskFunc(func() error {
			<-time.After(10 * time.Millisecond)
			return nil
		})

	err := task.Start()
	assert.NoError(s.T(), err)
	assert.True(s.T(), started.Load())

	task.StopWait()
	assert.True(s.T(), stopped.Load())
}

func (s *TaskTestSuite) TestPeriodicSubtask() {
	var runs atomic.Int32

	task := NewTask(s.config, "test-periodic").
		WithPeriodicSubtaskFunc(10*time.Millisecond, func() error {
			runs.Add(1)
			return nil
		})

	err := task.Start()
	assert.NoError(s.T(), err)

	assert.Eventually(s.T(), func() bool {
		return runs.Load() >= 3
	}, time.Second, 10*time.Millisecond)

	task.StopWait()
}

func (s *TaskTestSuite) TestWorkerPool() {
	var jobs atomic.Int32

	var task *Task
	task = NewTask(s.config, "test-workers").
		WithWorkerPool(2, 10).
		WithSubtaskFunc(func() error {
			for i := 0; i < 5; i++ {
				task.SubmitToWorker(func() {
					jobs.Add(1)
				})
			}
			return nil
		})

	err := task.Start()
	assert.NoError(s.T(), err)

	assert.Eventually(s.T(), func() bool {
		return jobs.Load() == 5
	}, time.Second, 10*time.Millisecond)

	task.StopWait()
}

func (s *TaskTestSuite) TestSubtaskTreeStops() {
	child := NewTask(s.config, "child").
		WithSubtaskFunc(func() error {
			<-time.After(5 * time.Millisecond)
			return nil
		})

	parent := NewTask(s.config, "parent").
		WithSubtask(child)

	err := parent.Start()
	assert.NoError(s.T(), err)

	parent.StopWait()
	assert.True(s.T(), child.IsStopping.Load())
}
