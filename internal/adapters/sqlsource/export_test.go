package sqlsource

var (
	MarkerFromValue  = markerFromValue
	IsTransportError = isTransportError
)
