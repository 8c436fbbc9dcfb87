package request

import (
	"fmt"

	"github.com/edvin/botfarm/internal/model"
)

type SetBotEnvVars struct {
	Vars []EnvVarEntry `json:"vars" validate:"required"`
}

// EnvVarEntry carries no field validations: a deploy tolerates and skips
// ill-formed pairs, while the replace-set endpoint rejects them explicitly
// through Validate.
type EnvVarEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Validate checks that every var has a well-formed key, a non-empty value,
// and that no key repeats.
func (r *SetBotEnvVars) Validate() error {
	return validateEnvVars(r.Vars)
}

func validateEnvVars(vars []EnvVarEntry) error {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if !model.ValidEnvVarKey(v.Key) {
			return fmt.Errorf("invalid env var name %q", v.Key)
		}
		if v.Value == "" {
			return fmt.Errorf("env var %q has an empty value", v.Key)
		}
		if seen[v.Key] {
			return fmt.Errorf("duplicate env var name %q", v.Key)
		}
		seen[v.Key] = true
	}
	return nil
}
