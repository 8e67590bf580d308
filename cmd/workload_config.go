package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/table-sim/sim/workload"
)

// GetWorkloadPreset decodes the named preset from the defaults file over
// workload.DefaultGeneratorSpec. Unknown preset names list the valid ones.
func GetWorkloadPreset(cfg Config, name string) (*workload.GeneratorSpec, error) {
	node, ok := cfg.Workloads[name]
	if !ok {
		names := make([]string, 0, len(cfg.Workloads))
		for n := range cfg.Workloads {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown workload preset %q; valid: %s", name, strings.Join(names, ", "))
	}
	data, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("re-encoding preset %q: %w", name, err)
	}
	spec, err := workload.DecodeGeneratorSpec(data)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	logrus.Infof("Using preset workload %v", name)
	return spec, nil
}
