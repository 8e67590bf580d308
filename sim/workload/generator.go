package workload

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/table-sim/sim"
)

// readPayload fills the syntactically required payload of read activities.
const readPayload = "-"

// Generate creates an activity list from a GeneratorSpec.
// Deterministic given the same spec; activities come back in workload order
// with thread and table ids inside the generator's ranges.
func Generate(spec *GeneratorSpec) ([]sim.Activity, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator spec: %w", err)
	}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))
	choice := rng.ForSubsystem(sim.SubsystemWorkload)
	timing := rng.ForSubsystem(sim.SubsystemTiming)
	logrus.Debugf("Generating %d activities with simulation key %d", spec.NumActivities, rng.Key())

	activities := make([]sim.Activity, 0, spec.NumActivities)
	for i := 0; i < spec.NumActivities; i++ {
		a := sim.Activity{
			Offset:   timing.Int63n(spec.MaxOffset + 1),
			ThreadID: 1 + choice.Intn(spec.NumThreads),
			TableID:  1 + choice.Intn(spec.NumTables),
			Kind:     sim.OpRead,
			Duration: timing.Int63n(spec.MaxDuration + 1),
			Payload:  readPayload,
		}
		if choice.Float64() >= spec.ReadFraction {
			a.Kind = sim.OpWrite
			a.Payload = fmt.Sprintf("%s%d", spec.PayloadPrefix, i+1)
		}
		activities = append(activities, a)
	}
	return activities, nil
}
