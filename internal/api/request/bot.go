package request

type DeployBot struct {
	Name          string        `json:"name" validate:"required,max=100"`
	Platform      string        `json:"platform" validate:"required,platform"`
	Runtime       string        `json:"runtime" validate:"required,runtime"`
	ScriptContent *string       `json:"script_content,omitempty"`
	EnvVars       []EnvVarEntry `json:"env_vars,omitempty"`
}
