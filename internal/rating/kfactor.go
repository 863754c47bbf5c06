package rating

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions reports a K-factor configuration that cannot be used.
var ErrInvalidOptions = errors.New("invalid rating options")

// KPolicy picks the K-factor for one side of a match from the number of
// matches that side has already played.
type KPolicy interface {
	K(matches int) float64
}

// Tier applies K to items with fewer than Below matches.
type Tier struct {
	Below int
	K     float64
}

// Adaptive gives newly rated items a larger K. Tiers are checked in order.
type Adaptive struct {
	Tiers []Tier
	Base  float64
}

func (a Adaptive) K(matches int) float64 {
	for _, t := range a.Tiers {
		if matches < t.Below {
			return t.K
		}
	}
	return a.Base
}

// Constant uses the same K regardless of experience.
type Constant float64

func (c Constant) K(int) float64 { return float64(c) }

type Mode string

const (
	ModeAdaptive Mode = "adaptive"
	ModeConstant Mode = "constant"
)

const (
	DefaultBaseK       = 50
	DefaultMediumK     = 45
	DefaultHighK       = 60
	DefaultHighBelow   = 5
	DefaultMediumBelow = 10
	DefaultConstantK   = 32
)

// Options is the configurable form of a KPolicy. Zero fields take defaults.
// In constant mode only BaseK is read.
type Options struct {
	Mode        Mode    `json:"mode"`
	BaseK       float64 `json:"baseK"`
	MediumK     float64 `json:"mediumK"`
	HighK       float64 `json:"highK"`
	HighBelow   int     `json:"highBelow"`
	MediumBelow int     `json:"mediumBelow"`
}

// DefaultPolicy is the adaptive 60/45/50 policy.
func DefaultPolicy() Adaptive {
	p, _ := Options{}.Policy()
	return p.(Adaptive)
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeAdaptive
	}
	if o.Mode == ModeConstant {
		if o.BaseK == 0 {
			o.BaseK = DefaultConstantK
		}
		return o
	}
	if o.BaseK == 0 {
		o.BaseK = DefaultBaseK
	}
	if o.MediumK == 0 {
		o.MediumK = DefaultMediumK
	}
	if o.HighK == 0 {
		o.HighK = DefaultHighK
	}
	if o.HighBelow == 0 {
		o.HighBelow = DefaultHighBelow
	}
	if o.MediumBelow == 0 {
		o.MediumBelow = DefaultMediumBelow
	}
	return o
}

// Policy validates o and builds the matching KPolicy.
func (o Options) Policy() (KPolicy, error) {
	o = o.withDefaults()
	switch o.Mode {
	case ModeConstant:
		if o.BaseK < 0 {
			return nil, fmt.Errorf("%w: negative K %v", ErrInvalidOptions, o.BaseK)
		}
		return Constant(o.BaseK), nil
	case ModeAdaptive:
		if o.BaseK < 0 || o.MediumK < 0 || o.HighK < 0 {
			return nil, fmt.Errorf("%w: negative K", ErrInvalidOptions)
		}
		if o.HighBelow < 0 || o.MediumBelow < o.HighBelow {
			return nil, fmt.Errorf("%w: thresholds %d/%d out of order", ErrInvalidOptions, o.HighBelow, o.MediumBelow)
		}
		return Adaptive{
			Tiers: []Tier{
				{Below: o.HighBelow, K: o.HighK},
				{Below: o.MediumBelow, K: o.MediumK},
			},
			Base: o.BaseK,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, o.Mode)
	}
}
