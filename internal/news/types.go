package news

import "github.com/Mubymubu/Iqtisad/internal/asset"

// Direction tags which way an event shocks its target.
type Direction uint8

const (
	DirectionPositive Direction = iota
	DirectionNegative
)

func (d Direction) String() string {
	switch d {
	case DirectionPositive:
		return "POSITIVE"
	case DirectionNegative:
		return "NEGATIVE"
	default:
		return "UNKNOWN"
	}
}

// Event is a transient scripted shock to one asset's price.
type Event struct {
	Headline  string
	AssetID   asset.ID
	AssetName string
	Impact    float64 // signed fraction, e.g. +0.15 for a 15% jump
	Direction Direction
	Time      int64 // unit clock at publication
}
