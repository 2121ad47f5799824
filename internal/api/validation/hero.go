package validation

import "github.com/google/uuid"

// CreateHeroRequest mirrors the fields needed for create hero validation.
type CreateHeroRequest struct {
	Name       string
	SecretName string
	Password   string
	Age        *int
	TeamID     *string
}

// UpdateHeroRequest mirrors the fields needed for update hero validation.
// Nil fields were absent from the request.
type UpdateHeroRequest struct {
	Name       *string
	SecretName *string
	Password   *string
	Age        *int
	TeamID     *string
}

// ValidateCreateHeroRequest validates the fields of a create hero request.
func ValidateCreateHeroRequest(req CreateHeroRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, requiredString("name", req.Name)...)
	errs = append(errs, requiredString("secret_name", req.SecretName)...)

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	errs = append(errs, validateAge(req.Age)...)
	errs = append(errs, validateTeamID(req.TeamID)...)

	return errs
}

// ValidateUpdateHeroRequest validates the fields of an update hero request.
func ValidateUpdateHeroRequest(req UpdateHeroRequest) []FieldError {
	var errs []FieldError

	if req.Name != nil {
		errs = append(errs, nonBlankString("name", *req.Name)...)
	}
	if req.SecretName != nil {
		errs = append(errs, nonBlankString("secret_name", *req.SecretName)...)
	}
	if req.Password != nil && *req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password must not be blank"})
	}

	errs = append(errs, validateAge(req.Age)...)
	errs = append(errs, validateTeamID(req.TeamID)...)

	return errs
}

func validateAge(age *int) []FieldError {
	if age != nil && *age < 0 {
		return []FieldError{{Field: "age", Message: "age must not be negative"}}
	}
	return nil
}

func validateTeamID(teamID *string) []FieldError {
	if teamID == nil {
		return nil
	}
	if _, err := uuid.Parse(*teamID); err != nil {
		return []FieldError{{Field: "team_id", Message: "team_id must be a valid UUID"}}
	}
	return nil
}
