package storage

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"salonbook-backend/models"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedData struct {
	Users           []models.User           `yaml:"users"`
	Salons          []models.Salon          `yaml:"salons"`
	Services        []models.Service        `yaml:"services"`
	Staff           []models.Staff          `yaml:"staff"`
	MembershipTiers []models.MembershipTier `yaml:"membershipTiers"`
}

// Seed loads the demo data into store unless it already holds users.
// Plain-text passwords from the file are passed through hash before storing.
func Seed(ctx context.Context, store Storage, hash func(string) (string, error)) error {
	if _, err := store.GetUser(ctx, 1); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	var data seedData
	if err := yaml.Unmarshal(seedYAML, &data); err != nil {
		return fmt.Errorf("parse seed data: %w", err)
	}

	userIDs := make([]uint, len(data.Users))
	for i := range data.Users {
		u := data.Users[i]
		hashed, err := hash(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
		if err := store.CreateUser(ctx, &u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		userIDs[i] = u.ID
	}

	salonIDs := make([]uint, len(data.Salons))
	for i := range data.Salons {
		s := data.Salons[i]
		s.OwnerID = ref(userIDs, s.OwnerID)
		if err := store.CreateSalon(ctx, &s); err != nil {
			return fmt.Errorf("seed salon %s: %w", s.NameEn, err)
		}
		salonIDs[i] = s.ID
	}

	for i := range data.Services {
		svc := data.Services[i]
		svc.SalonID = ref(salonIDs, svc.SalonID)
		if err := store.CreateService(ctx, &svc); err != nil {
			return fmt.Errorf("seed service %s: %w", svc.NameEn, err)
		}
	}

	for i := range data.Staff {
		st := data.Staff[i]
		st.SalonID = ref(salonIDs, st.SalonID)
		if err := store.CreateStaff(ctx, &st); err != nil {
			return fmt.Errorf("seed staff %s: %w", st.NameEn, err)
		}
	}

	for i := range data.MembershipTiers {
		tier := data.MembershipTiers[i]
		if err := store.CreateMembershipTier(ctx, &tier); err != nil {
			return fmt.Errorf("seed membership tier %s: %w", tier.NameEn, err)
		}
	}
	return nil
}

// ref maps a 1-based position in the seed file to the id the store assigned.
func ref(ids []uint, pos uint) uint {
	if pos == 0 || int(pos) > len(ids) {
		return 0
	}
	return ids[pos-1]
}
