package credits

const (
	// StartingCredits is granted to every user on first contact.
	StartingCredits = 500
	// ScanCost is deducted per completed analysis.
	ScanCost = 50
)
