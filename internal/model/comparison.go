package model

// Comparison is one alternative offer for a scanned product, as
// reported by the comparison collaborator.
type Comparison struct {
	ProductName       string
	Currency          string
	Source            string
	URL               string
	Price             float64
	PercentDifference float64
}
