package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerWithPrefixCombinesPrefixes(t *testing.T) {
	root := NewDefaultLogger("netcore", false)
	child := root.WithPrefix("abcd1234")

	assert.Equal(t, "netcore.abcd1234", child.(*DefaultLogger).prefix)
}

func TestDefaultLoggerWithPrefixOnBarePrefixHasNoLeadingDot(t *testing.T) {
	root := NewDefaultLogger("", false)
	child := root.WithPrefix("abcd1234")

	assert.Equal(t, "abcd1234", child.(*DefaultLogger).prefix)
}

func TestNopLoggerWithPrefixReturnsItself(t *testing.T) {
	logger := NopLogger()
	assert.Same(t, logger, logger.WithPrefix("anything"))
}
