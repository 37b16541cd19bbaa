package coverage

import "math"

// entropyWeight returns an informativeness multiplier for a query
// word derived from its document frequency, adapted from
// pkg/resorank/entropy.go's sigmoid-probability entropy (-p*ln(p))
// to coverage's single df/totalDocs input instead of resorank's
// per-field TokenMetadata index. A rare term (low df) sits near the
// sigmoid's low-probability tail where entropy is small; a term near
// the corpus midpoint carries the most informativeness.
func entropyWeight(df, totalDocs int) float64 {
	if totalDocs <= 0 || df <= 0 {
		return 1.0
	}
	p := sigmoidDF(df, totalDocs)
	if p <= 1e-6 || p >= 0.999999 {
		return 1.0
	}
	h := -p * math.Log(p)
	return 1.0 + h
}

func sigmoidDF(df, totalDocs int) float64 {
	ratio := float64(df) / float64(totalDocs)
	return 1.0 / (1.0 + math.Exp(-10*(ratio-0.5)))
}
