package similarity

import "github.com/Sivko/redirects-frizar/internal/models"

// BestMatch scans the candidate set and returns the single highest-scoring
// reference code for query, or nil when the query is empty, the candidate
// set is empty, or nothing scores above zero.
//
// The comparison is strict (`>`), so on an exact tie the first candidate
// encountered in input order wins and later equal scores never replace it.
// Downstream confidence exports depend on this being deterministic, so the
// tie-break must stay input-order-dependent.
func BestMatch(query string, candidates []models.ReferenceCode) *models.RedirectCandidate {
	if query == "" || len(candidates) == 0 {
		return nil
	}

	var best *models.RedirectCandidate
	bestPercent := 0.0

	for _, candidate := range candidates {
		if candidate.Code == "" {
			continue
		}
		percent := Score(query, candidate.Code)
		if percent > bestPercent {
			bestPercent = percent
			best = &models.RedirectCandidate{Code: candidate.Code, Percent: percent}
		}
	}

	return best
}
