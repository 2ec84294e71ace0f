// internal/scoring/classifier.go
package scoring

// Classify maps a final score to its risk tier. Lower bounds are inclusive.
func Classify(score int) RiskLevel {
	switch {
	case score >= 750:
		return RiskExcellent
	case score >= 650:
		return RiskGood
	case score >= 550:
		return RiskFair
	case score >= 450:
		return RiskPoor
	default:
		return RiskVeryPoor
	}
}
