package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	prev := Log.GetLevel()
	t.Cleanup(func() { Log.SetLevel(prev) })

	assert.NoError(t, SetLevel("debug"))
	assert.True(t, Debug())

	assert.NoError(t, SetLevel(" warn "))
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())
	assert.False(t, Debug())

	assert.Error(t, SetLevel("chatty"))
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())
}
