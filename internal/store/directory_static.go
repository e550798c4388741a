package store

import (
	"context"

	"github.com/GregMSThompson/onboarding/internal/models"
)

// staticDirectory serves the seed directory used until a real backend is wired.
type staticDirectory struct {
	regions []models.Region
	zones   map[string][]models.Zone
	banks   []models.Bank
}

func NewStaticDirectory() *staticDirectory {
	return &staticDirectory{
		regions: []models.Region{
			{ID: "1", Name: "Lagos"},
			{ID: "2", Name: "Abuja"},
			{ID: "3", Name: "Kano"},
			{ID: "4", Name: "Rivers"},
		},
		zones: map[string][]models.Zone{
			"1": {
				{ID: "1", Name: "Lagos Island"},
				{ID: "2", Name: "Lagos Mainland"},
				{ID: "3", Name: "Ikeja"},
			},
			"2": {
				{ID: "4", Name: "Garki"},
				{ID: "5", Name: "Wuse"},
				{ID: "6", Name: "Maitama"},
			},
			"3": {
				{ID: "7", Name: "Kano Municipal"},
				{ID: "8", Name: "Fagge"},
			},
			"4": {
				{ID: "9", Name: "Port Harcourt"},
				{ID: "10", Name: "Obio-Akpor"},
			},
		},
		banks: []models.Bank{
			{ID: "1", BankName: "Access Bank"},
			{ID: "2", BankName: "First Bank of Nigeria"},
			{ID: "3", BankName: "Guaranty Trust Bank"},
			{ID: "4", BankName: "United Bank for Africa"},
			{ID: "5", BankName: "Zenith Bank"},
			{ID: "6", BankName: "Parallex Bank"},
		},
	}
}

func (s *staticDirectory) Regions(_ context.Context) ([]models.Region, error) {
	return append([]models.Region(nil), s.regions...), nil
}

// Zones returns an empty list for unknown regions.
func (s *staticDirectory) Zones(_ context.Context, regionID string) ([]models.Zone, error) {
	return append([]models.Zone{}, s.zones[regionID]...), nil
}

func (s *staticDirectory) Banks(_ context.Context) ([]models.Bank, error) {
	return append([]models.Bank(nil), s.banks...), nil
}
