package domain

import "encoding/json"

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ConditionsReport is the provider's current-conditions payload, passed through verbatim.
type ConditionsReport = json.RawMessage
