// internal/workers/dining/verify-dataset/models.go
package verifydataset

import "dining-recommender/internal/dataset"

// Input carries no variables; the job verifies whatever snapshot the
// configured source holds right now.
type Input struct{}

type Output struct {
	Valid       bool            `json:"valid"`
	RecordCount int             `json:"recordCount"`
	Issues      []dataset.Issue `json:"issues"`
}
