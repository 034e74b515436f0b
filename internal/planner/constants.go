package planner

const (
	// PopulationWorth is the gold value assigned to one unit of population
	// when pricing costs and housing output.
	PopulationWorth = 0.5

	// SellBatch is the smallest surplus the planner bothers to sell, unless
	// the resource is at its storage cap.
	SellBatch = 10

	// MaxPurchasesPerDecision bounds how many buildings one decision may buy
	MaxPurchasesPerDecision = 5

	// DefaultHorizon is one simulated hour
	DefaultHorizon = 3600
)
