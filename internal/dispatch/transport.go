package dispatch

// InputRequest carries one text change. Empty text is meaningful: it resets
// the field, so the json tag carries no required binding.
type InputRequest struct {
	Text string `json:"text"`
}

// KeyRequest carries one navigation key press.
type KeyRequest struct {
	Key Key `json:"key" binding:"required,oneof=down up enter escape"`
}

// IndexRequest carries a suggestion index for hover and select.
type IndexRequest struct {
	Index *int `json:"index" binding:"required"`
}

// PrefillRequest resolves a field from the parent form. The coordinates are
// pointers so presence is validated, not non-zeroness: 0 is a legal latitude
// and longitude.
type PrefillRequest struct {
	Name string   `json:"name" binding:"required"`
	Lat  *float64 `json:"lat" binding:"required"`
	Lon  *float64 `json:"lon" binding:"required"`
}

// DisplayErrorRequest sets or clears a field's external error override.
type DisplayErrorRequest struct {
	Message string `json:"message"`
}
