package service

// Rule-based pricing constants, USD per night
const (
	basePrice           = 50.0
	perBedroom          = 25.0
	perBathroom         = 15.0
	beachfrontMaxM      = 50.0
	beachfrontPremium   = 100.0
	nearBeachMaxM       = 200.0
	nearBeachPremium    = 50.0
	farFromBeachMinM    = 1000.0
	farFromBeachPenalty = 30.0
	poolPremium         = 40.0
	oceanViewPremium    = 60.0
	largeGardenBonus    = 20.0
	mediumGardenBonus   = 10.0
	perACRoom           = 10.0
	perWifiTier         = 10.0
)

// RuleBasedPrice prices a validated feature vector with the additive reference formula.
// Distances between 201 and 999 m get no adjustment.
func RuleBasedPrice(f FeatureVector) float64 {
	price := basePrice
	price += f[FeatureBedrooms] * perBedroom
	price += f[FeatureBathrooms] * perBathroom

	switch dist := f[FeatureBeachDistance]; {
	case dist <= beachfrontMaxM:
		price += beachfrontPremium
	case dist <= nearBeachMaxM:
		price += nearBeachPremium
	case dist >= farFromBeachMinM:
		price -= farFromBeachPenalty
	}

	if f[FeaturePool] == 1 {
		price += poolPremium
	}
	if f[FeatureOceanView] == 1 {
		price += oceanViewPremium
	}

	switch Tier(f[FeatureGardenTier]) {
	case TierHigh:
		price += largeGardenBonus
	case TierMedium:
		price += mediumGardenBonus
	}

	price += f[FeatureACRooms] * perACRoom
	price += f[FeatureWifiTier] * perWifiTier

	return price
}
