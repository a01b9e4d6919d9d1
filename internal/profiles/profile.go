package profiles

import (
	"errors"
	"fmt"
	"time"
)

const (
	UnitSystemMetric   = "metric"
	UnitSystemImperial = "imperial"
)

// validation ranges for the onboarding wizard and settings screens
const (
	minHeightCm = 50
	maxHeightCm = 300
	minWeightKg = 20
	maxWeightKg = 400
	minAge      = 13
	maxAge      = 120
)

var ErrProfileNotFound = errors.New("profile not found")
var ErrEmailTaken = errors.New("email already taken")

type Profile struct {
	ID          int       `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	HeightCm    int       `json:"heightCm"`
	WeightKg    float64   `json:"weightKg"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	Goal        string    `json:"goal"`
	UnitSystem  string    `json:"unitSystem"`
	Onboarded   bool      `json:"onboarded"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Profile) Validate() error {
	if p.Email == "" {
		return errors.New("email empty")
	}
	if p.HeightCm < minHeightCm || p.HeightCm > maxHeightCm {
		return fmt.Errorf("height must be between %d and %d cm", minHeightCm, maxHeightCm)
	}
	if p.WeightKg < minWeightKg || p.WeightKg > maxWeightKg {
		return fmt.Errorf("weight must be between %d and %d kg", minWeightKg, maxWeightKg)
	}
	if p.Age < minAge || p.Age > maxAge {
		return fmt.Errorf("age must be between %d and %d", minAge, maxAge)
	}
	if p.UnitSystem != UnitSystemMetric && p.UnitSystem != UnitSystemImperial {
		return fmt.Errorf("unit system must be %s or %s", UnitSystemMetric, UnitSystemImperial)
	}
	return nil
}
