package dto

import (
	"math"

	"reviewhub/internal/api/models"
)

// CreateTitleDTO is the write representation: relations are referenced by
// slug, at least one genre is required.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Year        *int     `json:"year" binding:"omitempty,min=0"`
	Description string   `json:"description"`
	Genre       []string `json:"genre" binding:"required,min=1"`
	Category    *string  `json:"category"`
}

// UpdateTitleDTO is a partial update; nil fields are left untouched.
type UpdateTitleDTO struct {
	Name        *string  `json:"name" binding:"omitempty,max=200"`
	Year        *int     `json:"year" binding:"omitempty,min=0"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,min=1"`
	Category    *string  `json:"category"`
}

// TitleResponse is the read representation: relations expanded, rating
// derived from reviews (nil when there are none).
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        *int              `json:"year"`
	Rating      *float64          `json:"rating"`
	Description string            `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func TitleFromModel(t models.Title, rating *float64) TitleResponse {
	genres := make([]GenreResponse, 0, len(t.Genres))
	for _, g := range t.Genres {
		genres = append(genres, GenreFromModel(g))
	}

	var category *CategoryResponse
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		category = &c
	}

	return TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      roundRating(rating),
		Description: t.Description,
		Genre:       genres,
		Category:    category,
	}
}

// roundRating keeps two decimal places, matching the wire format.
func roundRating(rating *float64) *float64 {
	if rating == nil {
		return nil
	}
	rounded := math.Round(*rating*100) / 100
	return &rounded
}
