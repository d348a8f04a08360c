package comms

// scrambleChance is the probability an input edit gets shuffled while possessed.
const scrambleChance = 0.3

// Scramble returns text with its characters randomly shuffled some of the
// time while possessed, and unchanged otherwise.
func (c *Controller) Scramble(text string) string {
	if !c.IsPossessed() {
		return text
	}
	runes := []rune(text)
	if len(runes) < 2 || c.opts.Rand.Float64() >= scrambleChance {
		return text
	}
	for i := len(runes) - 1; i > 0; i-- {
		j := c.opts.Rand.IntN(i + 1)
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
