package validation_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rosterhq/roster/internal/api/validation"
)

func intPtr(i int) *int { return &i }

func TestValidateCreateHeroRequest(t *testing.T) {
	teamID := uuid.New().String()

	tests := []struct {
		name       string
		req        validation.CreateHeroRequest
		wantFields []string
	}{
		{
			name: "valid with all fields",
			req: validation.CreateHeroRequest{
				Name:       "Deadpond",
				SecretName: "Dive Wilson",
				Password:   "chimichanga",
				Age:        intPtr(28),
				TeamID:     &teamID,
			},
		},
		{
			name: "valid without optional fields",
			req: validation.CreateHeroRequest{
				Name:       "Deadpond",
				SecretName: "Dive Wilson",
				Password:   "chimichanga",
			},
		},
		{
			name: "missing name",
			req: validation.CreateHeroRequest{
				SecretName: "Dive Wilson",
				Password:   "chimichanga",
			},
			wantFields: []string{"name"},
		},
		{
			name: "missing secret name",
			req: validation.CreateHeroRequest{
				Name:     "Deadpond",
				Password: "chimichanga",
			},
			wantFields: []string{"secret_name"},
		},
		{
			name: "missing password",
			req: validation.CreateHeroRequest{
				Name:       "Deadpond",
				SecretName: "Dive Wilson",
			},
			wantFields: []string{"password"},
		},
		{
			name: "negative age",
			req: validation.CreateHeroRequest{
				Name:       "Deadpond",
				SecretName: "Dive Wilson",
				Password:   "chimichanga",
				Age:        intPtr(-1),
			},
			wantFields: []string{"age"},
		},
		{
			name: "malformed team id",
			req: validation.CreateHeroRequest{
				Name:       "Deadpond",
				SecretName: "Dive Wilson",
				Password:   "chimichanga",
				TeamID:     strPtr("not-a-uuid"),
			},
			wantFields: []string{"team_id"},
		},
		{
			name:       "everything missing",
			req:        validation.CreateHeroRequest{},
			wantFields: []string{"name", "secret_name", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validation.ValidateCreateHeroRequest(tt.req)
			assert.ElementsMatch(t, tt.wantFields, fieldNames(errs))
		})
	}
}

func TestValidateUpdateHeroRequest(t *testing.T) {
	teamID := uuid.New().String()

	tests := []struct {
		name       string
		req        validation.UpdateHeroRequest
		wantFields []string
	}{
		{
			name: "empty request is valid",
			req:  validation.UpdateHeroRequest{},
		},
		{
			name: "partial update",
			req:  validation.UpdateHeroRequest{Age: intPtr(48), TeamID: &teamID},
		},
		{
			name:       "blank name rejected",
			req:        validation.UpdateHeroRequest{Name: strPtr(" ")},
			wantFields: []string{"name"},
		},
		{
			name:       "blank secret name rejected",
			req:        validation.UpdateHeroRequest{SecretName: strPtr("")},
			wantFields: []string{"secret_name"},
		},
		{
			name:       "blank password rejected",
			req:        validation.UpdateHeroRequest{Password: strPtr("")},
			wantFields: []string{"password"},
		},
		{
			name:       "negative age rejected",
			req:        validation.UpdateHeroRequest{Age: intPtr(-5)},
			wantFields: []string{"age"},
		},
		{
			name:       "malformed team id rejected",
			req:        validation.UpdateHeroRequest{TeamID: strPtr("xyz")},
			wantFields: []string{"team_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validation.ValidateUpdateHeroRequest(tt.req)
			assert.ElementsMatch(t, tt.wantFields, fieldNames(errs))
		})
	}
}
