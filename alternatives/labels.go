package alternatives

func savingsLabel(savings int) string {
	switch {
	case savings > 50:
		return "Major savings (50%+)"
	case savings > 25:
		return "Significant savings (25-50%)"
	}
	return "Moderate savings (<25%)"
}

func tradeoffLabel(loss int) string {
	switch {
	case loss < 10:
		return "Minimal quality loss (<10%)"
	case loss < 25:
		return "Moderate quality loss (10-25%)"
	case loss < 50:
		return "Significant quality loss (25-50%)"
	}
	return "Major quality loss (>50%)"
}

func improvementLabel(gain int) string {
	switch {
	case gain > 100:
		return "Major improvement (2x+ parameters)"
	case gain > 50:
		return "Significant improvement (50%+ better)"
	case gain > 20:
		return "Moderate improvement (20-50% better)"
	}
	return "Slight improvement (<20% better)"
}

func contextAdvantage(context int) string {
	switch {
	case context >= 128000:
		return "Entire books, massive documents"
	case context >= 32768:
		return "Long documents, technical papers"
	case context >= 16384:
		return "Standard documents, conversations"
	}
	return "Short to medium context"
}
