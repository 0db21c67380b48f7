package domain

// Lat/Lng are untyped so JSON numbers and numeric strings both reach NormalizePoint.
type CreateSpotRequest struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Category    string `json:"category" validate:"omitempty,oneof=good-place alert event other"`
	Lat         any    `json:"lat"`
	Lng         any    `json:"lng"`
}

type UpdateSpotRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank"`
	Description *string `json:"description" validate:"omitempty,notblank"`
	Category    *string `json:"category" validate:"omitempty,oneof=good-place alert event other"`
	Lat         any     `json:"lat"`
	Lng         any     `json:"lng"`
}

type NearbyRequest struct {
	Lat      string
	Lng      string
	RadiusKM string
}

type ListSpotsRequest struct {
	Category string `validate:"omitempty,oneof=good-place alert event other"`
	Author   string
}

type CreateAlertRequest struct {
	SpotID    string   `json:"spotId" validate:"required,uuid"`
	AlertType string   `json:"alertType" validate:"omitempty,oneof=traffic weather safety event other"`
	Severity  int      `json:"severity" validate:"required,min=1,max=5"`
	Metadata  Metadata `json:"metadata"`
}

type TimeRangeRequest struct {
	Start string
	End   string
}
