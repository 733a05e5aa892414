package formatter

import (
	"encoding/json"

	"github.com/refixlabs/refix/checker"
)

// JSON renders findings grouped by unit name for machine consumption.
func JSON(findings []checker.Finding) ([]byte, error) {
	grouped := make(map[string][]checker.Finding)
	for _, f := range findings {
		grouped[f.Unit] = append(grouped[f.Unit], f)
	}
	return json.Marshal(grouped)
}
