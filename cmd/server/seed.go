package main

import (
	"time"

	"greenlane/internal/domain"
)

func domainUser(id, email string, dob *time.Time) domain.User {
	return domain.User{
		ID:          id,
		Email:       email,
		DateOfBirth: dob,
		AgeVerified: true,
		CreatedAt:   time.Now().UTC(),
	}
}

func domainDispensary(id, name, stateCode string) domain.Dispensary {
	return domain.Dispensary{
		ID:        id,
		Name:      name,
		StateCode: stateCode,
		CreatedAt: time.Now().UTC(),
	}
}

func devMenu() []domain.Product {
	return []domain.Product{
		{
			ID:           "prod-gummy-10",
			DispensaryID: "disp-ca",
			Name:         "Citrus Gummies 10mg",
			Category:     "edible",
			PriceCents:   1500,
			THCMgPerUnit: 10,
			Active:       true,
		},
		{
			ID:           "prod-choc-50",
			DispensaryID: "disp-ca",
			Name:         "Dark Chocolate Bar 50mg",
			Category:     "edible",
			PriceCents:   2500,
			THCMgPerUnit: 50,
			Active:       true,
		},
		{
			ID:           "prod-tincture-100",
			DispensaryID: "disp-ok",
			Name:         "Full Spectrum Tincture 100mg",
			Category:     "tincture",
			PriceCents:   4500,
			THCMgPerUnit: 100,
			Active:       true,
		},
	}
}
