package encryption

import (
	"fmt"

	"gits-go/internal/config"
)

// NewSealerFromConfig creates a Sealer based on the configuration type.
func NewSealerFromConfig(cfg config.SealingConfig) (Sealer, error) {
	switch cfg.Type {
	case "age", "":
		if cfg.RecipientPath == "" {
			return nil, fmt.Errorf("age sealing requires recipient_path to be set")
		}
		return NewAgeSealer(cfg.RecipientPath), nil
	case "test":
		return NewTestSealer(), nil
	default:
		return nil, fmt.Errorf("unknown sealing type: %q", cfg.Type)
	}
}
