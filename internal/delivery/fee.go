package delivery

// Platform delivery fee, integer MMK.
const (
	baseFee  int64 = 5000
	feePerKg int64 = 100
	feePerKm int64 = 200

	defaultWeightKg   int64 = 5
	defaultDistanceKm int64 = 10
)

// ComputePlatformFee prices a platform-managed delivery from its weight and
// distance. This is an approximation, not a pricing engine; callers needing a
// real fee must pass real measurements.
func ComputePlatformFee(weightKg, distanceKm int64) int64 {
	return baseFee + weightKg*feePerKg + distanceKm*feePerKm
}

// DefaultPlatformFee is the fee charged when no measurements are supplied.
func DefaultPlatformFee() int64 {
	return ComputePlatformFee(defaultWeightKg, defaultDistanceKm)
}
