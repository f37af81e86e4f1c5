package pagination

import "fmt"

// Validate checks the window itself, independent of any configured maximum.
func (p Params) Validate() error {
	if p.Limit <= 0 {
		return fmt.Errorf("%w: limit must be a positive integer", ErrInvalidPagingParameter)
	}
	if p.Offset < 0 {
		return fmt.Errorf("%w: offset cannot be negative", ErrInvalidPagingParameter)
	}
	return nil
}

// ValidateWith additionally enforces config.MaxLimit.
func (p Params) ValidateWith(cfg Config) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Limit > cfg.MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidPagingParameter, cfg.MaxLimit)
	}
	return nil
}

// WithDefaults clamps p into a window cfg allows: a negative offset
// becomes 0, a missing limit takes cfg.DefaultLimit and an oversized one
// is capped at cfg.MaxLimit.
func (p Params) WithDefaults(cfg Config) Params {
	p.Offset = max(p.Offset, 0)
	if p.Limit <= 0 {
		p.Limit = cfg.DefaultLimit
	}
	p.Limit = min(p.Limit, cfg.MaxLimit)
	return p
}
