package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %v)", c.Auth.AccessTokenTTL)
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		return fmt.Errorf("auth.refresh_token_ttl must exceed access_token_ttl (got %v <= %v)",
			c.Auth.RefreshTokenTTL, c.Auth.AccessTokenTTL)
	}

	if err := c.Pagination.validate(); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}

	return nil
}

func (p *PaginationConfig) validate() error {
	if p.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be > 0 (got %d)", p.DefaultLimit)
	}
	if p.MaxLimit < p.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit (got %d < %d)", p.MaxLimit, p.DefaultLimit)
	}
	return nil
}
