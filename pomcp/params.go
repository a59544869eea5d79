package pomcp

import (
	"github.com/janpfeifer/pomcp-planner/internal/parameters"
	"github.com/pkg/errors"
)

// Config holds the tunables an outer UCT/POMCP driver reads before each
// search: the exploration constant fed to BeliefNode.GetUcbAction and the
// seed for the RandomGenerator. It is not consulted by the belief-tree core
// itself -- GetUcbAction, the RNG and the number of simulations to run are
// all the caller's responsibility -- but is provided here because every
// driver needs it, configured the same way mcts.NewFromParams configures a
// searcher.
type Config struct {
	// ExplorationConstant (c) is the coefficient of the confidence term in
	// GetUcbAction's score: meanQ(a) + c*sqrt(ln(N)/n(a)).
	ExplorationConstant float64

	// Seed for the RandomGenerator used by SampleAParticle and
	// GetRandomUnvisitedAction.
	Seed int64

	// NumSimulations bounds how many trajectories the outer driver samples
	// from the root belief before committing to the robust action.
	NumSimulations int
}

// NewConfigFromParams parses a Config from a generic configuration string
// (key=value,key=value...), following the same PopParamOr idiom as
// mcts.NewFromParams. Unset keys take the given defaults.
func NewConfigFromParams(config string, defaults Config) (Config, error) {
	params := parameters.NewFromConfigString(config)
	cfg := defaults
	var err error

	cfg.ExplorationConstant, err = parameters.PopParamOr(params, "c_puct", cfg.ExplorationConstant)
	if err != nil {
		return cfg, err
	}
	if cfg.ExplorationConstant < 0 {
		return cfg, errors.Errorf("negative c_puct value (%f given) not possible", cfg.ExplorationConstant)
	}

	seed, err := parameters.PopParamOr(params, "seed", int(cfg.Seed))
	if err != nil {
		return cfg, err
	}
	cfg.Seed = int64(seed)

	cfg.NumSimulations, err = parameters.PopParamOr(params, "simulations", cfg.NumSimulations)
	if err != nil {
		return cfg, err
	}
	if cfg.NumSimulations <= 0 {
		return cfg, errors.Errorf("simulations must be positive (%d given)", cfg.NumSimulations)
	}

	return cfg, nil
}
