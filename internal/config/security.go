// Package config loads the YAML security configuration of the API.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SecurityConfig represents security configuration.
type SecurityConfig struct {
	Security struct {
		Auth struct {
			Provider string `yaml:"provider"`
			Password struct {
				MinPasswordLength int      `yaml:"min_password_length"`
				WeakPasswords     []string `yaml:"weak_passwords"`
			} `yaml:"password"`
		} `yaml:"auth"`
		JWT struct {
			SecretEnv     string `yaml:"secret_env"`
			ExpiryMinutes int    `yaml:"expiry_minutes"`
		} `yaml:"jwt"`
		TokenRateLimit struct {
			RequestsPerMinute int `yaml:"requests_per_minute"`
			Burst             int `yaml:"burst"`
		} `yaml:"token_rate_limit"`
	} `yaml:"security"`
}

// DefaultSecurityConfig returns the configuration used when no file is given.
func DefaultSecurityConfig() *SecurityConfig {
	var c SecurityConfig
	c.Security.Auth.Provider = "bcrypt"
	c.Security.Auth.Password.MinPasswordLength = 12
	c.Security.Auth.Password.WeakPasswords = []string{"password", "123456", "qwerty", "letmein", "admin", "welcome"}
	c.Security.JWT.SecretEnv = "JWT_SECRET"
	c.Security.JWT.ExpiryMinutes = 60 * 24 * 7
	c.Security.TokenRateLimit.RequestsPerMinute = 10
	c.Security.TokenRateLimit.Burst = 5
	return &c
}

// LoadSecurityConfig loads security configuration from YAML file.
// The path parameter is expected to come from a trusted source (command-line argument or hardcoded default).
func LoadSecurityConfig(path string) (*SecurityConfig, error) {
	// #nosec G304 -- path is provided by trusted source (CLI arg or config), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultSecurityConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateSecurityConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validateSecurityConfig validates the loaded configuration.
func validateSecurityConfig(config *SecurityConfig) error {
	if config.Security.Auth.Provider != "bcrypt" {
		return fmt.Errorf("unsupported auth provider %q", config.Security.Auth.Provider)
	}

	if config.Security.Auth.Password.MinPasswordLength < 8 {
		return fmt.Errorf("min_password_length must be at least 8")
	}

	if config.Security.JWT.SecretEnv == "" {
		return fmt.Errorf("jwt secret_env is required")
	}

	if config.Security.JWT.ExpiryMinutes <= 0 {
		return fmt.Errorf("jwt expiry_minutes must be positive")
	}

	if config.Security.TokenRateLimit.RequestsPerMinute <= 0 || config.Security.TokenRateLimit.Burst <= 0 {
		return fmt.Errorf("token_rate_limit requests_per_minute and burst must be positive")
	}

	return nil
}

// GetMinPasswordLength returns the minimum password length requirement.
func (c *SecurityConfig) GetMinPasswordLength() int {
	return c.Security.Auth.Password.MinPasswordLength
}

// GetWeakPasswords returns the list of weak passwords.
func (c *SecurityConfig) GetWeakPasswords() []string {
	return c.Security.Auth.Password.WeakPasswords
}

// GetJWTSecretEnv returns the environment variable name for JWT secret.
func (c *SecurityConfig) GetJWTSecretEnv() string {
	return c.Security.JWT.SecretEnv
}

// GetJWTExpiry returns the lifetime of issued access tokens.
func (c *SecurityConfig) GetJWTExpiry() time.Duration {
	return time.Duration(c.Security.JWT.ExpiryMinutes) * time.Minute
}

// GetTokenRateLimit returns the per-client token endpoint rate as requests
// per second and the bucket size.
func (c *SecurityConfig) GetTokenRateLimit() (float64, int) {
	rl := c.Security.TokenRateLimit
	return float64(rl.RequestsPerMinute) / 60, rl.Burst
}
