package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerEnabled(t *testing.T) {
	m := NewManager("suggest_tag=on, live_feed=off, Half=50%, broken=maybe, =x, dangling")

	assert.True(t, m.Enabled("suggest_tag", ""))
	assert.True(t, m.Enabled("SUGGEST_TAG", ""), "flag names are case-insensitive")
	assert.False(t, m.Enabled("live_feed", "user-1"))
	assert.False(t, m.Enabled("broken", "user-1"), "unrecognized values are off")
	assert.False(t, m.Enabled("missing", "user-1"))
}

func TestManagerPercentRollout(t *testing.T) {
	m := NewManager("gradual=50%")

	// Deterministic per subject.
	first := m.Enabled("gradual", "subject-a")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("gradual", "subject-a"))
	}

	// Anonymous subjects never enter a partial rollout.
	assert.False(t, m.Enabled("gradual", ""))

	full := NewManager("everyone=100%")
	assert.True(t, full.Enabled("everyone", ""))

	none := NewManager("nobody=0%")
	assert.False(t, none.Enabled("nobody", "subject-a"))
}

func TestManagerSnapshot(t *testing.T) {
	m := NewManager("suggest_tag=on,live_feed=off")
	snap := m.Snapshot("user-1")
	assert.Equal(t, map[string]bool{"suggest_tag": true, "live_feed": false}, snap)
}

func TestNilManagerIsOff(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled("anything", "user-1"))
}
