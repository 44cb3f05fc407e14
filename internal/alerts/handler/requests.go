package handler

import s "curbside/pkg/string"

// SignupRequest is the JSON body of POST /signup. Consent must be explicitly
// checked and attributed to the page it was collected on.
type SignupRequest struct {
	Phone            string `json:"phone" validate:"required,notblank"`
	HouseNumber      string `json:"house_number" validate:"required,notblank"`
	StreetDirection  string `json:"street_direction"`
	StreetName       string `json:"street_name" validate:"required,notblank"`
	StreetType       string `json:"street_type" validate:"required,notblank"`
	FullAddress      string `json:"full_address" validate:"required,notblank"`
	ConsentChecked   bool   `json:"consent_checked" validate:"required"`
	ConsentSourceURL string `json:"consent_source_url" validate:"required,url"`
}

// Sanitize trims whitespace from all string fields.
func (r *SignupRequest) Sanitize() {
	s.TrimStrings(&r.Phone, &r.HouseNumber, &r.StreetDirection, &r.StreetName, &r.StreetType, &r.FullAddress, &r.ConsentSourceURL)
}

// SignupResponse is the JSON body returned by POST /signup.
type SignupResponse struct {
	Outcome      string `json:"outcome"`
	SubscriberID string `json:"subscriber_id,omitempty"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error_description,omitempty"`
}
