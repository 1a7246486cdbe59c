package generator

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestConversion(t *testing.T) {
	assert.True(t, Identity.IsIdentity())
	assert.Equal(t, "x", Identity.Apply("x"))

	toAddress := Transformf("%s.Address()")
	assert.False(t, toAddress.IsIdentity())
	assert.Equal(t, "x.Address()", toAddress.Apply("x"))

	// Identities vanish from compositions
	assert.True(t, Identity.Then(Identity).IsIdentity())
	assert.Equal(t, "x.Address()", Identity.Then(toAddress).Apply("x"))
	assert.Equal(t, "x.Address()", toAddress.Then(Identity).Apply("x"))

	topic := Transformf("lib.AddressTopic(%s)")
	assert.Equal(t, "lib.AddressTopic(x.Address())", toAddress.Then(topic).Apply("x"))
}

func TestTopicEncoding(t *testing.T) {
	enc := topicf("lib.UintTopic(%s)")
	assert.True(t, enc.Supported())
	out, err := enc.Apply("n")
	assert.NoError(t, err)
	assert.Equal(t, "lib.UintTopic(n)", out)

	var zero TopicEncoding
	assert.False(t, zero.Supported())

	_, err = noTopic("bool cannot be indexed").Apply("b")
	assert.True(t, errors.Is(err, ErrNoTopicEncoding))
	assert.Contains(t, err.Error(), "bool cannot be indexed")
}
