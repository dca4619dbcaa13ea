package repository

import "github.com/go-playground/validator/v10"

// Outcome tells callers what a comment operation did when it returned without a store error.
type Outcome int

const (
	// OutcomeApplied means the row was found and the operation ran.
	OutcomeApplied Outcome = iota
	// OutcomeNotFound means no comment matched the identifier.
	OutcomeNotFound
	// OutcomeDenied means the principal may not run the operation; nothing was read.
	OutcomeDenied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// CommentUpdateRequest carries the target comment and its new text
type CommentUpdateRequest struct {
	CommentID uint   `json:"comment_id" validate:"required"`
	Comment   string `json:"comment" validate:"required,min=1,max=5000"`
}

func (r CommentUpdateRequest) Validate() error {
	v := validator.New()

	return v.Struct(r)
}
