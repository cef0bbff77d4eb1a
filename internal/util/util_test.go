package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny("Team Standup", "standup", "meeting"))
	assert.True(t, ContainsAny("MORNING RUN", "run"))
	assert.False(t, ContainsAny("Lunch with Sarah", "standup", "meeting"))
	assert.False(t, ContainsAny("", "anything"))
	assert.False(t, ContainsAny("anything"))
}
