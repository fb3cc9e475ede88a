package models

// Requests for the timeline HTTP endpoints. Defined in domain for consistency and reuse.

type TimelineRequest struct {
	View string `query:"view" json:"view" default:"upcoming" validate:"oneof=upcoming all"`
}

type SpeechesRequest struct {
	Type        string `query:"type" json:"type" validate:"omitempty,oneof=speech press_conference"`
	Institution string `query:"institution" json:"institution" validate:"omitempty,min=2,max=64"`
}

type ScheduleRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}
