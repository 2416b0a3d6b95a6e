package request_models

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestTripRequest_BudgetBounds(t *testing.T) {
	at := 10_000_000.0
	over := 10_000_000.01
	negative := -1.0

	assert.NoError(t, binding.Validator.ValidateStruct(CreateTripRequest{Destination: "Lisbon", Budget: &at}))
	assert.Error(t, binding.Validator.ValidateStruct(CreateTripRequest{Destination: "Lisbon", Budget: &over}))
	assert.Error(t, binding.Validator.ValidateStruct(CreateTripRequest{Destination: "Lisbon", Budget: &negative}))

	assert.NoError(t, binding.Validator.ValidateStruct(UpdateTripRequest{Budget: &at}))
	assert.Error(t, binding.Validator.ValidateStruct(UpdateTripRequest{Budget: &over}))
}
