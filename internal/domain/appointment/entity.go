package appointment

import "github.com/BruksfildServices01/care-marketplace/internal/models"

// ===============================
// Domain Actions
// ===============================

func Rate(ap *models.Appointment, rating int, comment string) error {
	if err := ValidateRating(rating); err != nil {
		return err
	}
	if err := CanRate(ap.Rating); err != nil {
		return err
	}

	ap.Rating = &rating
	ap.ReviewComment = comment
	return nil
}
