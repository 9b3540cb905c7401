package domain

// ReactionKind is the kind of reaction a user can request for a video.
type ReactionKind string

const (
	// ReactionLike marks membership in a video's liker set.
	ReactionLike ReactionKind = "like"

	// ReactionDislike marks membership in a video's disliker set.
	ReactionDislike ReactionKind = "dislike"
)

// Valid reports whether k is a known reaction kind.
func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// Opposite returns the other reaction kind.
func (k ReactionKind) Opposite() ReactionKind {
	if k == ReactionLike {
		return ReactionDislike
	}
	return ReactionLike
}

// Reaction is a user's current reaction state for a video:
// no reaction, like, or dislike. A user holds at most one reaction
// per video at any time.
type Reaction string

// ReactionNone means the user holds no reaction for the video.
const ReactionNone Reaction = ""

// ToggleReaction computes the reaction state after a user requests the given
// kind. Requesting the kind the user already holds removes it (the on/off
// switch per kind); requesting the other kind replaces the current reaction,
// which is what keeps the liker and disliker sets mutually exclusive.
//
// The function is pure: storage backends apply it inside a transaction
// against the caller's current reaction row.
func ToggleReaction(current Reaction, requested ReactionKind) Reaction {
	if current == Reaction(requested) {
		return ReactionNone
	}
	return Reaction(requested)
}

// ReactionSets is the pair of liker/disliker id sets for one video.
// It exists for callers that hold fully loaded videos (and for the tests
// that pin down the toggle semantics at the set level).
type ReactionSets struct {
	Likes    []int64
	Dislikes []int64
}

// Current returns the user's reaction according to set membership.
func (s ReactionSets) Current(userID int64) Reaction {
	for _, id := range s.Likes {
		if id == userID {
			return Reaction(ReactionLike)
		}
	}
	for _, id := range s.Dislikes {
		if id == userID {
			return Reaction(ReactionDislike)
		}
	}
	return ReactionNone
}

// Toggle applies ToggleReaction to the sets and returns the updated pair.
// After the call the user id is present in at most one of the two sets.
func (s ReactionSets) Toggle(userID int64, requested ReactionKind) ReactionSets {
	next := ToggleReaction(s.Current(userID), requested)

	out := ReactionSets{
		Likes:    remove(s.Likes, userID),
		Dislikes: remove(s.Dislikes, userID),
	}
	switch next {
	case Reaction(ReactionLike):
		out.Likes = append(out.Likes, userID)
	case Reaction(ReactionDislike):
		out.Dislikes = append(out.Dislikes, userID)
	}
	return out
}

func remove(ids []int64, userID int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}
