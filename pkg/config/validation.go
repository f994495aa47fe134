package config

import "fmt"

// validate validates the configuration.
func validate(cfg *Config) error {
	if cfg.Decode.CoderType != 0 && cfg.Decode.CoderType != 1 {
		return fmt.Errorf("decode.coder_type must be 0 (TETRA) or 1 (AMR475), got %d", cfg.Decode.CoderType)
	}
	if cfg.Decode.StealingModulus <= 0 {
		return fmt.Errorf("decode.stealing_modulus must be positive")
	}
	if cfg.Decode.StealingResidue < 0 || cfg.Decode.StealingResidue >= cfg.Decode.StealingModulus {
		return fmt.Errorf("decode.stealing_residue must be in [0, stealing_modulus)")
	}

	if cfg.Record.Enabled && cfg.Record.Path == "" {
		return fmt.Errorf("record.path is required when record.enabled is true")
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics.enabled is true")
	}

	if cfg.Web.Enabled && cfg.Web.Addr == "" {
		return fmt.Errorf("web.addr is required when web.enabled is true")
	}

	if cfg.MQTT.Enabled && cfg.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt.enabled is true")
	}

	return nil
}
