package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoleMention(t *testing.T) {
	id, ok := parseRoleMention("<@&123456>")
	assert.True(t, ok)
	assert.Equal(t, "123456", id)

	for _, arg := range []string{"<@123456>", "123456", "role", "<@&>"} {
		_, ok := parseRoleMention(arg)
		assert.False(t, ok, arg)
	}
}

func TestParseUserMention(t *testing.T) {
	for _, arg := range []string{"<@123456>", "<@!123456>"} {
		id, ok := parseUserMention(arg)
		assert.True(t, ok, arg)
		assert.Equal(t, "123456", id)
	}

	for _, arg := range []string{"<@&123456>", "123456", "<#123456>"} {
		_, ok := parseUserMention(arg)
		assert.False(t, ok, arg)
	}
}

func TestParseChannel(t *testing.T) {
	id, ok := parseChannel("<#123456>")
	assert.True(t, ok)
	assert.Equal(t, "123456", id)

	id, ok = parseChannel("123456")
	assert.True(t, ok)
	assert.Equal(t, "123456", id)

	for _, arg := range []string{"<@123456>", "general", "12a34"} {
		_, ok := parseChannel(arg)
		assert.False(t, ok, arg)
	}
}
