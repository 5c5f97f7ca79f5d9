package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashBytes(t *testing.T) {
	assert.Equal(t, HashBytes([]byte("the\tDET\n")), HashBytes([]byte("the\t"), []byte("DET\n")))
	assert.Equal(t, HashString("corpus"), HashBytes([]byte("corpus")))
	assert.NotEqual(t, HashString("corpus"), HashString("corpora"))
}

func TestRecoverWithError(t *testing.T) {
	run := func() (err error) {
		defer RecoverWithError(&err)
		panic("trellis exploded")
	}
	err := run()
	assert.EqualError(t, err, "got panic: trellis exploded")

	ok := func() (err error) {
		defer RecoverWithError(&err)
		return errors.New("plain")
	}
	assert.EqualError(t, ok(), "plain")
}
