package config

var Presets = map[string]map[string]*Config{
	"ring": {
		"small": {
			MaxDistance: 100, VelocityDecay: 0.1, Steps: 200,
			Generate: GenerateConfig{Kind: "ring", Nodes: 12, Radius: 20},
		},
		"large": {
			MaxDistance: 200, VelocityDecay: 0.1, Steps: 500,
			Generate: GenerateConfig{Kind: "ring", Nodes: 120, Radius: 80},
		},
	},
	"clusters": {
		"dense": {
			MaxDistance: 150, VelocityDecay: 0.15, Steps: 400, Converge: 1e-3,
			Generate: GenerateConfig{Kind: "clusters", Clusters: 5, Nodes: 20, Spread: 12, Seed: 1},
		},
		"sparse": {
			MaxDistance: 150, VelocityDecay: 0.1, Steps: 300, Converge: 1e-3,
			Generate: GenerateConfig{Kind: "clusters", Clusters: 3, Nodes: 8, Spread: 20, Seed: 1},
		},
	},
	"random": {
		"sparse": {
			MaxDistance: 100, VelocityDecay: 0.1, Steps: 300,
			Generate: GenerateConfig{Kind: "random", Nodes: 50, Links: 40, Radius: 100, Seed: 42},
		},
		"tangled": {
			MaxDistance: 100, VelocityDecay: 0.2, Steps: 800, Converge: 1e-4,
			Generate: GenerateConfig{Kind: "random", Nodes: 100, Links: 300, Radius: 100, Seed: 42},
		},
	},
}

// Preset looks up a family/name pair, returning a copy with the
// standard per-node defaults filled in.
func Preset(family, name string) (*Config, bool) {
	group, ok := Presets[family]
	if !ok {
		return nil, false
	}
	cfg, ok := group[name]
	if !ok {
		return nil, false
	}
	out := *cfg
	if out.Defaults == (DefaultsConfig{}) {
		out.Defaults = DefaultConfig().Defaults
	}
	return &out, true
}
