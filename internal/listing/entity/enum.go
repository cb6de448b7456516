package entity

type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "HOUSE"
	PropertyTypeLand      PropertyType = "LAND"
	PropertyTypeApartment PropertyType = "APARTMENT"
	PropertyTypeBuilding  PropertyType = "BUILDING"
	PropertyTypeFarming   PropertyType = "FARMING"
	PropertyTypeShop      PropertyType = "SHOP"
)

func (p PropertyType) IsValid() bool {
	switch p {
	case PropertyTypeHouse, PropertyTypeLand, PropertyTypeApartment,
		PropertyTypeBuilding, PropertyTypeFarming, PropertyTypeShop:
		return true
	default:
		return false
	}
}

// Intent is what the poster wants to do with the property.
type Intent string

const (
	IntentSell Intent = "SELL"
	IntentRent Intent = "RENT"
)

func (i Intent) IsValid() bool {
	return i == IntentSell || i == IntentRent
}

type HouseStatus string

const (
	HouseStatusAvailable HouseStatus = "AVAILABLE"
	HouseStatusSold      HouseStatus = "SOLD"
	HouseStatusRented    HouseStatus = "RENTED"
	HouseStatusPending   HouseStatus = "PENDING"
)

func (s HouseStatus) IsValid() bool {
	switch s {
	case HouseStatusAvailable, HouseStatusSold, HouseStatusRented, HouseStatusPending:
		return true
	default:
		return false
	}
}

// ParseSafeHouseStatuses keeps only recognized values, dropping anything a
// client made up.
func ParseSafeHouseStatuses(in []string) []HouseStatus {
	out := make([]HouseStatus, 0, len(in))
	for _, v := range in {
		if s := HouseStatus(v); s.IsValid() {
			out = append(out, s)
		}
	}
	return out
}

// ParseSafePropertyTypes keeps only recognized values.
func ParseSafePropertyTypes(in []string) []PropertyType {
	out := make([]PropertyType, 0, len(in))
	for _, v := range in {
		if p := PropertyType(v); p.IsValid() {
			out = append(out, p)
		}
	}
	return out
}

// ParseSafeIntents keeps only recognized values.
func ParseSafeIntents(in []string) []Intent {
	out := make([]Intent, 0, len(in))
	for _, v := range in {
		if i := Intent(v); i.IsValid() {
			out = append(out, i)
		}
	}
	return out
}
