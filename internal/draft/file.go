package draft

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/whygo"
)

// Load reads a draft from a YAML file. Outcomes without an owner are
// assigned to ownerID and outcomes without a metric type are measured as a
// number. The result is not validated.
func Load(path, ownerID string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read draft %s", path)
	}
	return Parse(data, ownerID)
}

// Parse decodes a YAML draft. Unknown keys are rejected.
func Parse(data []byte, ownerID string) (*Draft, error) {
	var d Draft
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to parse draft: %w", err)
	}
	for i := range d.Outcomes {
		if d.Outcomes[i].OwnerID == "" {
			d.Outcomes[i].OwnerID = ownerID
		}
		if d.Outcomes[i].MetricType == "" {
			d.Outcomes[i].MetricType = whygo.MetricNumber
		}
	}
	return &d, nil
}

// Template is a starting YAML draft for `whygo goals create --file`.
func Template(parentID string) []byte {
	if parentID == "" {
		parentID = "dg_1"
	}
	return []byte(fmt.Sprintf(`# Ladder up to exactly one department goal.
parent: %s
why: ""
goal: ""
outcomes:
  - description: ""
    metric_type: number
    target_annual: 0
  - description: ""
    metric_type: percentage
    target_annual: 100
    target_q1: 25
`, parentID))
}
