package engine

import "github.com/labx/labrest/internal/models"

// Aggregate folds per-record outcomes into a BatchResult. Rules:
// every outcome failed -> failed; any failed among others -> partial;
// nothing written but nothing failed -> not_updated; otherwise success.
// An empty batch is skipped.
func Aggregate(outcomes []models.RecordOutcome) models.BatchResult {
	result := models.BatchResult{Results: outcomes}
	if len(outcomes) == 0 {
		result.OverallStatus = models.BatchSkipped
		return result
	}

	var good, neutral, bad int
	for _, o := range outcomes {
		switch o.Status {
		case models.StatusInserted, models.StatusUpdated, models.StatusDeleted:
			good++
			if o.ID != "" {
				result.SuccessIDs = append(result.SuccessIDs, o.ID)
			}
		case models.StatusNotUpdated:
			neutral++
			if o.ID != "" {
				result.SuccessIDs = append(result.SuccessIDs, o.ID)
			}
		default: // error, not_found
			bad++
			if o.ID != "" {
				result.FailedIDs = append(result.FailedIDs, o.ID)
			}
		}
	}

	switch {
	case bad == len(outcomes):
		result.OverallStatus = models.BatchFailed
	case bad > 0:
		result.OverallStatus = models.BatchPartial
	case good == 0 && neutral > 0:
		result.OverallStatus = models.BatchNotUpdated
	default:
		result.OverallStatus = models.BatchSuccess
	}
	return result
}
