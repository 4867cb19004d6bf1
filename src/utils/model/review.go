package model

import "time"

// Review is feedback left on a completed job: the chain record joined
// with the comment blob
type Review struct {
	Id         string
	JobId      string
	Reviewer   string
	Reviewee   string
	Rating     int
	Comment    string
	CommentRef string
	CreatedAt  time.Time

	// True when the comment blob could not be fetched
	Degraded bool
}
