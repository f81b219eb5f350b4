package appointment

import "github.com/BruksfildServices01/care-marketplace/internal/httperr"

// ===============================
// Rating
// ===============================

const (
	MinRating = 1
	MaxRating = 5
)

// ValidateRating recusa zero estrelas e valores fora da escala.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return httperr.ErrBusiness("invalid_rating")
	}
	return nil
}

// CanRate: cada atendimento é avaliado uma única vez
func CanRate(rating *int) error {
	if rating != nil {
		return httperr.ErrBusiness("already_rated")
	}
	return nil
}
