// Command pomcp-demo wires the pomcp belief-tree core against a toy
// partially-observable model -- the classic two-door Tiger problem -- and
// runs a fixed number of simulations from the root belief, reporting the
// robust action. It is a thin demonstration of the wiring a host planner
// must provide (Model, ActionPool, EstimationStrategy, HistoricalData);
// the simulation/rollout policy itself stays the caller's responsibility.
package main

import (
	"flag"
	"fmt"

	"github.com/janpfeifer/pomcp-planner/pomcp"
	"k8s.io/klog/v2"
)

const (
	// Actions.
	actionListen = 0
	actionOpenA  = 1
	actionOpenB  = 2

	// Observations.
	obsTigerA = 0
	obsTigerB = 1

	numBins = 3
)

var (
	flagConfig = flag.String("config", "simulations=2000,c_puct=1.0,seed=1",
		"Planner configuration, as key=value pairs: c_puct, seed, simulations.")
)

// tigerState is which door the tiger is behind.
type tigerState int

func (s tigerState) DistanceTo(other pomcp.State) float64 {
	o := other.(tigerState)
	if s == o {
		return 0
	}
	return 1
}

type tigerEntry struct {
	state tigerState
}

func (e *tigerEntry) State() pomcp.State { return e.state }

// tigerHistoricalData is trivial: it carries no state beyond what the belief
// already holds, but exists to demonstrate the CreateChild wiring.
type tigerHistoricalData struct {
	depth int
}

func (d *tigerHistoricalData) CreateChild(action, obs int) pomcp.HistoricalData[int, int] {
	return &tigerHistoricalData{depth: d.depth + 1}
}

// tigerModel implements pomcp.Model[int, int]: 3 actions (listen, open-A,
// open-B), double as their own bins.
type tigerModel struct{}

func (tigerModel) CreateRootHistoricalData() pomcp.HistoricalData[int, int] {
	return &tigerHistoricalData{}
}
func (tigerModel) SampleAnAction(bin int) int { return bin }
func (tigerModel) NumberOfBins() int          { return numBins }
func (tigerModel) ActionBin(action int) int   { return action }

// Step is the generative step function: given a state and action, returns
// the next state, observation and reward. The belief-tree core never calls
// it itself; the demo drives it directly to grow the tree.
func (tigerModel) Step(state tigerState, action int, rng pomcp.RandomGenerator) (next tigerState, obs int, reward float64) {
	switch action {
	case actionListen:
		// 85% chance of a correct observation.
		correct := rng.Intn(100) < 85
		if (state == obsTigerA) == correct {
			obs = obsTigerA
		} else {
			obs = obsTigerB
		}
		return state, obs, -1
	case actionOpenA:
		if state == obsTigerA {
			reward = -100
		} else {
			reward = 10
		}
	case actionOpenB:
		if state == obsTigerB {
			reward = -100
		} else {
			reward = 10
		}
	}
	// Door opened: the problem resets, tiger re-hides uniformly at random.
	if rng.Intn(2) == 0 {
		next = obsTigerA
	} else {
		next = obsTigerB
	}
	return next, obsTigerA, reward
}

type tigerActionPool struct {
	model *tigerModel
}

func (p *tigerActionPool) CreateActionMapping(belief *pomcp.BeliefNode[int, int]) pomcp.ActionMapping[int, int] {
	return pomcp.NewDiscretizedActionMap[int, int](p.model, pomcp.IdentityObservationPool[int]{})
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	cfg, err := pomcp.NewConfigFromParams(*flagConfig, pomcp.Config{
		ExplorationConstant: 1.0,
		Seed:                1,
		NumSimulations:      2000,
	})
	if err != nil {
		klog.Fatalf("invalid --config: %v", err)
	}

	model := &tigerModel{}
	tree := pomcp.NewBeliefTree[int, int](model, &tigerActionPool{model: model}, nil)
	root := tree.Reset()
	tree.InitializeRoot()

	// Seed the root belief with a uniform particle mix over the tiger's
	// hiding spot.
	for i := 0; i < 500; i++ {
		if i%2 == 0 {
			root.Add(&tigerEntry{state: obsTigerA})
		} else {
			root.Add(&tigerEntry{state: obsTigerB})
		}
	}

	rng := pomcp.NewRandomGenerator(cfg.Seed)
	runSimulations(tree, rng, cfg.NumSimulations, cfg.ExplorationConstant)

	mapping := root.Mapping()
	robust, ok := mapping.GetRobustAction()
	if !ok {
		klog.Fatalf("no action was visited after %d simulations", cfg.NumSimulations)
	}
	fmt.Printf("robust action: %d (visited %d times, meanQ=%.3f)\n",
		robust, mapping.GetVisitCount(robust), mapping.GetMeanQValue(robust))
	fmt.Printf("belief tree grew to %d nodes: %v\n", tree.GetNumberOfNodes(), tree.NodeIDs())
}

// runSimulations drives numSimulations trajectories from root, one ply deep
// (listen vs. open), which is enough to exercise the belief tree's
// expansion, observation branching and backup paths.
func runSimulations(tree *pomcp.BeliefTree[int, int], rng pomcp.RandomGenerator, numSimulations int, c float64) {
	model := &tigerModel{}
	root := tree.GetRoot()
	for i := 0; i < numSimulations; i++ {
		mapping := root.Mapping()

		var action int
		if mapping.HasUnvisitedActions() {
			action, _ = mapping.GetRandomUnvisitedAction(rng)
		} else {
			action, _ = root.GetUcbAction(c)
		}

		particle := root.SampleAParticle(rng)
		state := particle.State().(tigerState)
		_, obs, reward := model.Step(state, action, rng)

		child := tree.CreateOrGetChild(root, action, obs)
		child.Add(&tigerEntry{state: state})

		mapping.Update(action, 1, reward)
	}
}
