package config

var Presets = map[string]map[string]*Config{
	Elastic: {
		"default":     ForScenario(Elastic),
		"heavy_light": withBodies(Elastic, BodiesConfig{Mass1: 9, Velocity1: 4, Mass2: 1, Velocity2: 0}),
		"chase":       withBodies(Elastic, BodiesConfig{Mass1: 2, Velocity1: 8, Mass2: 6, Velocity2: 2}),
		"bounce_back": withBodies(Elastic, BodiesConfig{Mass1: 1, Velocity1: 6, Mass2: 10, Velocity2: -1}),
	},
	Inelastic: {
		"default": ForScenario(Inelastic),
		"head_on": withBodies(Inelastic, BodiesConfig{Mass1: 4, Velocity1: 6, Mass2: 4, Velocity2: -6}),
		"sticky":  withRestitution(withBodies(Inelastic, BodiesConfig{Mass1: 3, Velocity1: 5, Mass2: 5, Velocity2: -2}), 0),
		"bouncy":  withRestitution(withBodies(Inelastic, BodiesConfig{Mass1: 4, Velocity1: 5, Mass2: 4, Velocity2: -3}), 0.9),
	},
	Wall: {
		"default": ForScenario(Wall),
		"fast":    withBodies(Wall, BodiesConfig{Mass1: 2, Velocity1: 9}),
		"slow":    withBodies(Wall, BodiesConfig{Mass1: 8, Velocity1: 1}),
	},
	Impulse: {
		"default": ForScenario(Impulse),
		"gentle":  withForce(ForScenario(Impulse), 5, 1),
		"shove":   withForce(ForScenario(Impulse), 40, 0.5),
	},
}

func withBodies(scenario string, b BodiesConfig) *Config {
	cfg := ForScenario(scenario)
	cfg.Bodies = b
	return cfg
}

func withRestitution(cfg *Config, e float64) *Config {
	cfg.Restitution = e
	return cfg
}

func withForce(cfg *Config, force, duration float64) *Config {
	cfg.Force = force
	cfg.Duration = duration
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	return names
}
