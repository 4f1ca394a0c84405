package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Policy.DedupWindow < 0 {
		return fmt.Errorf("policy.dedup_window must be >= 0 (got %v)", c.Policy.DedupWindow)
	}
	if c.Policy.ImportMaxRows <= 0 {
		return fmt.Errorf("policy.import_max_rows must be > 0 (got %d)", c.Policy.ImportMaxRows)
	}
	if c.Policy.EmployeeKeyHeader == "" {
		return fmt.Errorf("policy.employee_key_header must not be empty")
	}

	return nil
}
