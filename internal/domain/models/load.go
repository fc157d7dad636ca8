package models

// Dataset column names.
const (
	ColReferenceNumber = "reference_number"
	ColOrigin          = "origin"
	ColDestination     = "destination"
	ColEquipmentType   = "equipment_type"
	ColRate            = "rate"
	ColCommodity       = "commodity"
)

// RequiredLoadColumns lists the columns every load row must carry, in report order.
var RequiredLoadColumns = []string{
	ColReferenceNumber,
	ColOrigin,
	ColDestination,
	ColEquipmentType,
	ColRate,
	ColCommodity,
}

// LoadRow is one raw dataset row keyed by column name. A key is absent when the
// column is missing for that row; null cells are kept as their raw text.
type LoadRow map[string]string

type LoadRecord struct {
	ReferenceNumber string  `json:"reference_number"`
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	EquipmentType   string  `json:"equipment_type"`
	Rate            float64 `json:"rate"`
	Commodity       string  `json:"commodity"`
}

type LoadResponse struct {
	Success bool        `json:"success"`
	Data    *LoadRecord `json:"data"`
	Error   *string     `json:"error"`
}

// nullTokens are the cell values a dataframe reader treats as missing by default.
var nullTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNullCell reports whether a raw cell counts as a missing value.
func IsNullCell(v string) bool {
	_, ok := nullTokens[v]
	return ok
}

// Value returns the cell for col, or false when the column is absent or null.
func (r LoadRow) Value(col string) (string, bool) {
	v, ok := r[col]
	if !ok || IsNullCell(v) {
		return "", false
	}
	return v, true
}
