package packages

// PackageType identifies a proposal tier.
type PackageType string

const (
	SmallPackage  PackageType = "small"
	MediumPackage PackageType = "medium"
	LargePackage  PackageType = "large"
)

type Tier struct {
	Name         string
	Description  string
	Features     int
	Integrations int
	OneTimeFee   float64 // DKK
	MonthlyFee   float64 // DKK
}

var Tiers = map[PackageType]Tier{
	SmallPackage: {
		Name:         "Small",
		Description:  "Marketing site or single-purpose app for small teams",
		Features:     12,
		Integrations: 1,
		OneTimeFee:   18000,
		MonthlyFee:   500,
	},
	MediumPackage: {
		Name:         "Medium",
		Description:  "Full product build with portal and integrations",
		Features:     24,
		Integrations: 2,
		OneTimeFee:   36000,
		MonthlyFee:   900,
	},
	LargePackage: {
		Name:         "Large",
		Description:  "Multi-app platform with ongoing development capacity",
		Features:     48,
		Integrations: 4,
		OneTimeFee:   72000,
		MonthlyFee:   1700,
	},
}

func GetTier(t PackageType) (Tier, bool) {
	tier, ok := Tiers[t]
	return tier, ok
}

func ValidType(t string) bool {
	_, ok := Tiers[PackageType(t)]
	return ok
}
