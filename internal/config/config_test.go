package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, LinkModeP, cfg.LinkMode)
	assert.True(t, cfg.FromCLI)
	assert.True(t, cfg.Filter.Warn)
	assert.False(t, cfg.HasActions)
	assert.Equal(t, 0, cfg.Status)
	assert.Equal(t, int64(DefaultArgMax), cfg.Global.ArgMax)
	assert.Nil(t, cfg.Global.MaxDepth)
	assert.Nil(t, cfg.Global.MinDepth)
}

func TestLinkModeString(t *testing.T) {
	assert.Equal(t, "-P", LinkModeP.String())
	assert.Equal(t, "-H", LinkModeH.String())
	assert.Equal(t, "-L", LinkModeL.String())
}

func TestFollowAtFilterTime(t *testing.T) {
	tests := []struct {
		name   string
		mode   LinkMode
		follow bool
		want   bool
	}{
		{"default", LinkModeP, false, false},
		{"dash L", LinkModeL, false, true},
		{"dash H", LinkModeH, false, false},
		{"follow option", LinkModeP, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.LinkMode = tt.mode
			cfg.Filter.FollowLink = tt.follow
			assert.Equal(t, tt.want, cfg.FollowAtFilterTime())
		})
	}
}

func TestFollowAtBuildTime(t *testing.T) {
	cfg := New()
	assert.False(t, cfg.FollowAtBuildTime())

	cfg.LinkMode = LinkModeH
	assert.True(t, cfg.FollowAtBuildTime())
	assert.False(t, cfg.FollowAtFilterTime())

	cfg.LinkMode = LinkModeL
	assert.True(t, cfg.FollowAtBuildTime())
}

func TestWalkDoneHooksRunInOrder(t *testing.T) {
	cfg := New()

	var order []int
	cfg.OnWalkDone(func() error { order = append(order, 1); return nil })
	cfg.OnWalkDone(func() error { order = append(order, 2); return errors.New("boom") })

	hooks := cfg.WalkDoneHooks()
	require.Len(t, hooks, 2)
	require.NoError(t, hooks[0]())
	require.Error(t, hooks[1]())
	assert.Equal(t, []int{1, 2}, order)
}
