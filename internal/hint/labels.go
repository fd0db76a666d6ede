package hint

// Labels returns count labels over alphabet: every one-character label in
// alphabet order, then every two-character label, and so on, stopping as
// soon as count labels exist. The first character is the most significant.
func Labels(count int, alphabet string) []string {
	chars := []rune(alphabet)
	base := len(chars)
	if count <= 0 || base == 0 {
		return nil
	}

	labels := make([]string, 0, count)
	digits := []int{0}
	for len(labels) < count {
		buf := make([]rune, len(digits))
		for i, d := range digits {
			buf[i] = chars[d]
		}
		labels = append(labels, string(buf))

		// Increment from the least significant digit; on overflow of every
		// digit move to the next length tier.
		i := len(digits) - 1
		for ; i >= 0; i-- {
			digits[i]++
			if digits[i] < base {
				break
			}
			digits[i] = 0
		}
		if i < 0 {
			digits = make([]int, len(digits)+1)
		}
	}
	return labels
}

// MaxLen returns the length of the longest label.
func MaxLen(labels []string) int {
	m := 0
	for _, l := range labels {
		m = max(m, len(l))
	}
	return m
}
