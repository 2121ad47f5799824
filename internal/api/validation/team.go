package validation

import "strings"

// CreateTeamRequest mirrors the fields needed for create team validation.
type CreateTeamRequest struct {
	Name         string
	Headquarters string
}

// UpdateTeamRequest mirrors the fields needed for update team validation.
// Nil fields were absent from the request.
type UpdateTeamRequest struct {
	Name         *string
	Headquarters *string
}

// ValidateCreateTeamRequest validates the fields of a create team request.
func ValidateCreateTeamRequest(req CreateTeamRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, requiredString("name", req.Name)...)
	errs = append(errs, requiredString("headquarters", req.Headquarters)...)

	return errs
}

// ValidateUpdateTeamRequest validates the fields of an update team request.
// Provided fields must not be blank.
func ValidateUpdateTeamRequest(req UpdateTeamRequest) []FieldError {
	var errs []FieldError

	if req.Name != nil {
		errs = append(errs, nonBlankString("name", *req.Name)...)
	}
	if req.Headquarters != nil {
		errs = append(errs, nonBlankString("headquarters", *req.Headquarters)...)
	}

	return errs
}

func requiredString(field, value string) []FieldError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return []FieldError{{Field: field, Message: field + " is required"}}
	}
	if len(trimmed) > 255 {
		return []FieldError{{Field: field, Message: field + " must be at most 255 characters"}}
	}
	return nil
}

func nonBlankString(field, value string) []FieldError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return []FieldError{{Field: field, Message: field + " must not be blank"}}
	}
	if len(trimmed) > 255 {
		return []FieldError{{Field: field, Message: field + " must be at most 255 characters"}}
	}
	return nil
}
