package model

// DetectMode selects what kind of document the detector should read.
type DetectMode string

// Supported detection modes.
const (
	ModePriceTag DetectMode = "tag"
	ModeReceipt  DetectMode = "receipt"
	ModeMenu     DetectMode = "menu"
)

// Valid reports whether the mode is one of the supported document kinds.
func (m DetectMode) Valid() bool {
	switch m {
	case ModePriceTag, ModeReceipt, ModeMenu:
		return true
	}
	return false
}

// LineItem is a single priced entry extracted from a receipt or menu.
type LineItem struct {
	Name     string
	Currency string
	Category string
	Price    float64
	Quantity int
}

// DetectionResult is the detector's reading of a captured image.
// An empty Currency means the detector could not tell and the user
// must be asked. Price may be 0 for multi-item documents where only
// line items carry amounts. Results are immutable snapshots.
type DetectionResult struct {
	Currency        string
	ProductName     string
	ProductCategory string
	StoreName       string
	RestaurantName  string
	PaymentMethod   string
	TransactionID   string
	Items           []LineItem
	Price           float64
	Confidence      float64
	Tax             float64
	Total           float64
}

// HasCurrency reports whether the detector identified the currency.
func (r DetectionResult) HasCurrency() bool {
	return r.Currency != ""
}
