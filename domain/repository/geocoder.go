package repository

import (
	"context"

	"github.com/elainedb/videofeed/domain/model"
)

// IGeocoder resolves coordinates to a city/country pair. Implementations are
// best-effort: nil means "no data available" and is never an error.
type IGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) *model.Place
}
