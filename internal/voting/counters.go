package voting

// Counters is the derived vote state stored on a target.
type Counters struct {
	Upvotes    int
	Downvotes  int
	Likes      int
	TotalScore int
}

// Delta is a signed change to the counter that tracks Kind.
type Delta struct {
	Kind Kind
	N    int
}

// Aggregate applies deltas to c. Every counter is clamped at zero and the
// total score is recomputed from the clamped values.
func Aggregate(c Counters, deltas ...Delta) Counters {
	for _, d := range deltas {
		switch d.Kind {
		case Upvote:
			c.Upvotes = clamp(c.Upvotes + d.N)
		case Downvote:
			c.Downvotes = clamp(c.Downvotes + d.N)
		case Like:
			c.Likes = clamp(c.Likes + d.N)
		}
	}
	c.Upvotes = clamp(c.Upvotes)
	c.Downvotes = clamp(c.Downvotes)
	c.Likes = clamp(c.Likes)
	c.TotalScore = c.Upvotes - c.Downvotes
	return c
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
