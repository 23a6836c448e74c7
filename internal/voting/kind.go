package voting

// Kind is the kind of a vote record. Likes carry the single kind Like.
type Kind string

const (
	Upvote   Kind = "upvote"
	Downvote Kind = "downvote"
	Like     Kind = "like"

	// None reports the absence of a vote.
	None Kind = ""
)

// Domain is the set of kinds a target accepts.
type Domain struct {
	name  string
	kinds []Kind
}

var (
	// Votes is the binary domain used by questions and answers.
	Votes = Domain{name: "vote", kinds: []Kind{Upvote, Downvote}}
	// Likes is the unary domain used by comments.
	Likes = Domain{name: "like", kinds: []Kind{Like}}
)

func (d Domain) Name() string { return d.name }

// Valid reports whether k belongs to the domain.
func (d Domain) Valid(k Kind) bool {
	for _, kind := range d.kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Action is the transition a toggle request produced.
type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Removed Action = "removed"
	// Unchanged is reported when a concurrent request won the race to
	// create the vote; the stored state is returned as is.
	Unchanged Action = "unchanged"
)

// Requester identifies the authenticated user behind a request.
type Requester struct {
	ID int
}
