// Package config holds the run-time parameters for a generate/replay
// invocation and validates them before the kernel starts, so a bad
// configuration aborts at init rather than partway through a run.
package config

import "fmt"

// Config bundles every knob a run needs: the seed, run length, and the
// world generator's map/placement parameters.
type Config struct {
	Seed int64
	Years int

	MapRadius        int     // hex grid radius; governs region count
	BiomeCenters     int     // noise blend centers for terrain generation
	AdjacencyK       int     // k for k-nearest region adjacency
	RiverCount       int
	InhabitantSample float64 // fraction of settlement population given notable Person entities
	ProceduralIDBase uint64  // id range reserved for worldgen before the kernel's own ids
}

// Default returns the starting configuration the CLI falls back to
// when a flag is not supplied.
func Default() Config {
	return Config{
		Seed:             1,
		Years:            50,
		MapRadius:        12,
		BiomeCenters:     6,
		AdjacencyK:       6,
		RiverCount:       4,
		InhabitantSample: 0.02,
		ProceduralIDBase: 1,
	}
}

// Validate rejects an unusable configuration with a descriptive message
// before any entity or event is created.
func (c Config) Validate() error {
	if c.Years <= 0 {
		return fmt.Errorf("config: years must be positive, got %d", c.Years)
	}
	if c.MapRadius <= 0 {
		return fmt.Errorf("config: map radius must be positive, got %d", c.MapRadius)
	}
	if c.AdjacencyK <= 0 {
		return fmt.Errorf("config: adjacency k must be positive, got %d", c.AdjacencyK)
	}
	if c.InhabitantSample <= 0 || c.InhabitantSample > 1 {
		return fmt.Errorf("config: inhabitant sample rate must be in (0, 1], got %f", c.InhabitantSample)
	}
	if c.ProceduralIDBase == 0 {
		return fmt.Errorf("config: procedural id base must be positive")
	}
	return nil
}
