package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddListRemove(t *testing.T) {
	s := NewEventScheduler(time.UTC)

	require.NoError(t, s.AddJob("class-completion", "*/15 * * * *", func() {}))
	assert.Error(t, s.AddJob("class-completion", "*/15 * * * *", func() {}), "ids are unique")
	assert.Error(t, s.AddJob("broken", "not a cron", func() {}))

	jobs := s.ListJobs()
	require.Contains(t, jobs, "class-completion")
	assert.Equal(t, "*/15 * * * *", jobs["class-completion"].CronExpr)
	assert.Nil(t, jobs["class-completion"].LastRun)

	require.NoError(t, s.RemoveJob("class-completion"))
	assert.Error(t, s.RemoveJob("class-completion"))
	assert.Empty(t, s.ListJobs())
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewEventScheduler(nil)
	assert.False(t, s.IsRunning())
	s.Start()
	s.Start()
	assert.True(t, s.IsRunning())
	s.Stop()
	assert.False(t, s.IsRunning())
}
