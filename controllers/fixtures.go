package controllers

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Hoshii/models"
	"github.com/Hoshii/repositories"
)

// Test fixture data for use in tests

const (
	testSecret        = "controllers-test-secret"
	testAdminPassword = "starlight123"
)

// MockAdminPasswordHash returns a bcrypt hash of testAdminPassword
func MockAdminPasswordHash(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return string(hash)
}

// MockParticipation creates a sample participation for a sky
func MockParticipation(skyID, actionKey string, name, comment *string) models.Participation {
	return models.Participation{
		Sky_ID:     skyID,
		Action_Key: actionKey,
		Name:       name,
		Comment:    comment,
	}
}

// SeedParticipations inserts the given participations in order
func SeedParticipations(t *testing.T, store repositories.ParticipationStore, rows ...models.Participation) {
	t.Helper()
	for i := range rows {
		if err := store.Insert(context.Background(), &rows[i]); err != nil {
			t.Fatalf("Failed to seed participation: %v", err)
		}
	}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
