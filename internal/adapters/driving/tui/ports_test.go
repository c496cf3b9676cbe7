package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrMissingQueryService)
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingQueryService)
	assert.NoError(t, (&Ports{Query: &stubQueryService{}}).Validate())
}
