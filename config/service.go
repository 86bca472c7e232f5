package config

import (
	"fmt"

	"github.com/kbukum/jobreturn/logger"
)

// ServiceConfig is the part of the agent configuration owned by this
// library. Returner settings are not decoded here; they are resolved per
// call through a Resolver.
//
//	name: minion
//	environment: production
//	logging:
//	  level: info
//	  format: json
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "minion"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Logging.Name == "" {
		c.Logging.Name = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the configuration.
func (c *ServiceConfig) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
