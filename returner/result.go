package returner

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/jobreturn/config"
	"github.com/kbukum/jobreturn/errors"
	"github.com/kbukum/jobreturn/validation"
)

// Result is the outcome of one job on one minion, as produced by the agent.
type Result struct {
	// ID is the minion id.
	ID string `json:"id" mapstructure:"id" validate:"required"`
	// JID is the job id.
	JID     string `json:"jid" mapstructure:"jid" validate:"required"`
	Fun     string `json:"fun" mapstructure:"fun"`
	FunArgs []any  `json:"fun_args" mapstructure:"fun_args"`
	// Return is the function's output: any JSON-like value.
	Return any `json:"return" mapstructure:"return"`
	// Out names the outputter the agent rendered Return with, if any.
	Out string `json:"out,omitempty" mapstructure:"out"`
	// RetConfig names an alternate configuration namespace.
	RetConfig string `json:"ret_config,omitempty" mapstructure:"ret_config"`
}

// FromMap decodes a result from the agent's in-memory representation.
func FromMap(m map[string]any) (Result, error) {
	var r Result
	if err := config.Decode(m, &r); err != nil {
		return Result{}, errors.InvalidInput("result", err.Error()).WithCause(err)
	}
	return r, nil
}

// FromJSON decodes a result from its JSON form.
func FromJSON(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, errors.InvalidInput("result", err.Error()).WithCause(err)
	}
	return r, nil
}

// Validate checks that the result identifies a minion and a job.
func (r Result) Validate() error {
	return validation.Validate(r)
}

// String returns a short description used in log messages.
func (r Result) String() string {
	return fmt.Sprintf("%s/%s (%s)", r.ID, r.JID, r.Fun)
}
