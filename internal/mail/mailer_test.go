package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInviteBody(t *testing.T) {
	body := InviteBody("friend@example.com", "alice", "ZnJpZW5k")

	assert.Equal(t,
		"Hello friend@example.com, you got an invite from alice to join artBucket.com. "+
			"Use this code: ZnJpZW5k to create an account. Have fun.",
		body)
}
