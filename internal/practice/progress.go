package practice

// CompletionPercent reports how far through a question set the user is,
// as a value in [0, 100].
func CompletionPercent(questionIndex, totalQuestions int) float64 {
	if totalQuestions <= 0 {
		return 0
	}
	if questionIndex < 0 {
		questionIndex = 0
	}
	if questionIndex > totalQuestions {
		questionIndex = totalQuestions
	}
	return float64(questionIndex) / float64(totalQuestions) * 100
}
