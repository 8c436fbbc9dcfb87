package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetBotEnvVars_Validate(t *testing.T) {
	req := SetBotEnvVars{Vars: []EnvVarEntry{
		{Key: "TELEGRAM_TOKEN", Value: "abc"},
		{Key: "_internal", Value: "x"},
	}}
	assert.NoError(t, req.Validate())
}

func TestSetBotEnvVars_Validate_BadName(t *testing.T) {
	for _, key := range []string{"1BAD", "has space", "has-dash", ""} {
		req := SetBotEnvVars{Vars: []EnvVarEntry{{Key: key, Value: "x"}}}
		assert.Error(t, req.Validate(), key)
	}
}

func TestSetBotEnvVars_Validate_EmptyValue(t *testing.T) {
	req := SetBotEnvVars{Vars: []EnvVarEntry{{Key: "TOKEN", Value: ""}}}
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty value")
}

func TestSetBotEnvVars_Validate_Duplicate(t *testing.T) {
	req := SetBotEnvVars{Vars: []EnvVarEntry{
		{Key: "TOKEN", Value: "a"},
		{Key: "TOKEN", Value: "b"},
	}}
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}
