package constants

const (
	// Mock test sampling
	DefaultMockHardCap        = 100
	DefaultMockMinViable      = 5
	DefaultMockSecondsPerItem = 90
	MinTimeMultiplier         = 0.5
	MaxTimeMultiplier         = 2.0

	// Daily challenge
	DefaultChallengeBasePoints = 10
	DefaultChallengeHistoryCap = 30

	DefaultTimezone = "Local"
)
