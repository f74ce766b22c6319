package market

import "strconv"

// FormatPrice renders a whole-unit amount as "KSh 1,234,567".
func FormatPrice(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.Itoa(amount)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "KSh -" + string(out)
	}
	return "KSh " + string(out)
}
