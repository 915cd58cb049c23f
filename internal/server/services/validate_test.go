package services

import (
	"testing"

	"github.com/dmitrijs2005/sociopedia/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput_CollectsAllFields(t *testing.T) {
	err := validateInput(newValidator(), RegisterInput{Email: "nope", Password: "1"})

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)

	got := map[string]string{}
	for _, f := range verr.Fields {
		got[f.Field] = f.Message
	}
	assert.Equal(t, map[string]string{
		"firstName": "is required",
		"lastName":  "is required",
		"email":     "must be a valid email address",
		"password":  "must be at least 5 characters",
	}, got)
}

func TestValidateInput_OK(t *testing.T) {
	assert.NoError(t, validateInput(newValidator(), validRegisterInput()))
	assert.NoError(t, validateInput(newValidator(), LoginInput{Email: "a@b.co", Password: "x"}))
}
