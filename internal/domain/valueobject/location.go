package valueobject

import "github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"

// ServiceLocation describes where the work happens. Street, barangay and
// city are required; the rest help the provider find the spot.
type ServiceLocation struct {
	StreetName         string
	SubdivisionVillage string
	Barangay           string
	CityMunicipality   string
	Landmark           string
}

func NewServiceLocation(street, subdivision, barangay, city, landmark string) (ServiceLocation, error) {
	if street == "" || barangay == "" || city == "" {
		return ServiceLocation{}, apperror.New(apperror.ErrCodeValidation, "street, barangay and city are required")
	}
	return ServiceLocation{
		StreetName:         street,
		SubdivisionVillage: subdivision,
		Barangay:           barangay,
		CityMunicipality:   city,
		Landmark:           landmark,
	}, nil
}

// IsZero reports whether no location was supplied at all.
func (l ServiceLocation) IsZero() bool {
	return l.StreetName == "" && l.SubdivisionVillage == "" && l.Barangay == "" &&
		l.CityMunicipality == "" && l.Landmark == ""
}
