package method

import (
	"errors"
	"fmt"
)

// ErrInvalidParameters is returned by Validate for an inconsistent parameter set.
var ErrInvalidParameters = errors.New("invalid calculation parameters")

// Adjustments are minute offsets applied to computed prayer times so they
// match an authority's published schedule.
type Adjustments struct {
	Fajr    int `json:"fajr"`
	Sunrise int `json:"sunrise"`
	Dhuhr   int `json:"dhuhr"`
	Asr     int `json:"asr"`
	Maghrib int `json:"maghrib"`
	Isha    int `json:"isha"`
}

// Parameters is the input a prayer time calculator needs for one method.
// Exactly one of IshaAngle and IshaInterval is set. A nil MaghribAngle means
// standard geometric sunset.
type Parameters struct {
	Method       Method      `json:"method"`
	FajrAngle    float64     `json:"fajr_angle"`
	IshaAngle    *float64    `json:"isha_angle,omitempty"`
	IshaInterval *int        `json:"isha_interval,omitempty"`
	MaghribAngle *float64    `json:"maghrib_angle,omitempty"`
	Adjustments  Adjustments `json:"adjustments"`
}

func angle(deg float64) *float64 { return &deg }
func minutes(n int) *int         { return &n }

// parameters is indexed by Method. Entries are never mutated; Params hands
// out copies.
var parameters = [methodEnd]Parameters{
	Algerian: {Method: Algerian, FajrAngle: 16, IshaAngle: angle(14)},
	Turkey: {Method: Turkey, FajrAngle: 18, IshaAngle: angle(17),
		Adjustments: Adjustments{Sunrise: -7, Dhuhr: 5, Asr: 4, Maghrib: 7}},
	Egyptian: {Method: Egyptian, FajrAngle: 19.5, IshaAngle: angle(17.5),
		Adjustments: Adjustments{Dhuhr: 1}},
	EgyptianBis: {Method: EgyptianBis, FajrAngle: 20, IshaAngle: angle(18),
		Adjustments: Adjustments{Dhuhr: 1}},
	FixedIshaAngle: {Method: FixedIshaAngle, FajrAngle: 19.5, IshaInterval: minutes(90)},
	FranceAngle15:  {Method: FranceAngle15, FajrAngle: 15, IshaAngle: angle(15)},
	FranceAngle18:  {Method: FranceAngle18, FajrAngle: 18, IshaAngle: angle(18)},
	Karachi: {Method: Karachi, FajrAngle: 18, IshaAngle: angle(18),
		Adjustments: Adjustments{Dhuhr: 1}},
	JakimMalaysia: {Method: JakimMalaysia, FajrAngle: 20, IshaAngle: angle(18)},
	London: {Method: London, FajrAngle: 18, IshaAngle: angle(18),
		Adjustments: Adjustments{Sunrise: -3}},
	MuisSingapore: {Method: MuisSingapore, FajrAngle: 20, IshaAngle: angle(18),
		Adjustments: Adjustments{Dhuhr: 1}},
	MuslimWorldLeague: {Method: MuslimWorldLeague, FajrAngle: 18, IshaAngle: angle(17),
		Adjustments: Adjustments{Dhuhr: 1}},
	FranceAngle12: {Method: FranceAngle12, FajrAngle: 12, IshaAngle: angle(12)},
	NorthAmerica: {Method: NorthAmerica, FajrAngle: 15, IshaAngle: angle(15),
		Adjustments: Adjustments{Dhuhr: 1}},
	SihatKemenag: {Method: SihatKemenag, FajrAngle: 20, IshaAngle: angle(18)},
	Shia:         {Method: Shia, FajrAngle: 16, IshaAngle: angle(14)},
	Tunisia:      {Method: Tunisia, FajrAngle: 18, IshaAngle: angle(18)},
	UAE: {Method: UAE, FajrAngle: 19.5, IshaInterval: minutes(90),
		Adjustments: Adjustments{Sunrise: -3, Dhuhr: 3, Asr: 3, Maghrib: 3}},
	UmmAlQura: {Method: UmmAlQura, FajrAngle: 18.5, IshaInterval: minutes(90)},
	MoonsightingCommittee: {Method: MoonsightingCommittee, FajrAngle: 18, IshaAngle: angle(18),
		Adjustments: Adjustments{Dhuhr: 5, Maghrib: 3}},
	Kuwait: {Method: Kuwait, FajrAngle: 18, IshaAngle: angle(17.5)},
	Qatar:  {Method: Qatar, FajrAngle: 18, IshaInterval: minutes(90)},
	Tehran: {Method: Tehran, FajrAngle: 17.7, IshaAngle: angle(14), MaghribAngle: angle(4.5)},
}

// Params returns the calculation parameters of m. It panics if m is not a
// catalog member; use Resolve for values that have not been validated.
func (m Method) Params() Parameters {
	p, ok := Resolve(m)
	if !ok {
		panic(fmt.Sprintf("method: no parameters for %s", m))
	}
	return p
}

// Resolve returns the calculation parameters of m and whether m is a catalog
// member.
func Resolve(m Method) (Parameters, bool) {
	if !m.Valid() {
		return Parameters{}, false
	}
	return parameters[m].clone(), true
}

func (p Parameters) clone() Parameters {
	if p.IshaAngle != nil {
		p.IshaAngle = angle(*p.IshaAngle)
	}
	if p.IshaInterval != nil {
		p.IshaInterval = minutes(*p.IshaInterval)
	}
	if p.MaghribAngle != nil {
		p.MaghribAngle = angle(*p.MaghribAngle)
	}
	return p
}

// Validate checks that p belongs to a catalog method and defines isha either
// by angle or by interval, never both.
func (p Parameters) Validate() error {
	if !p.Method.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, p.Method)
	}
	switch {
	case p.IshaAngle == nil && p.IshaInterval == nil:
		return fmt.Errorf("%w: %s has neither isha angle nor isha interval", ErrInvalidParameters, p.Method)
	case p.IshaAngle != nil && p.IshaInterval != nil:
		return fmt.Errorf("%w: %s has both isha angle and isha interval", ErrInvalidParameters, p.Method)
	}
	return nil
}

func init() {
	if err := checkCatalog(); err != nil {
		panic(err)
	}
}

// checkCatalog verifies that every method has a unique name and a complete,
// self-referencing parameter entry, and builds byName.
func checkCatalog() error {
	var errs []error
	byName = make(map[string]Method, methodEnd-1)
	for _, m := range All() {
		name := names[m]
		if name == "" {
			errs = append(errs, fmt.Errorf("method %d has no name", int(m)))
			continue
		}
		if prev, dup := byName[name]; dup {
			errs = append(errs, fmt.Errorf("methods %d and %d share name %q", int(prev), int(m), name))
		}
		byName[name] = m

		p := parameters[m]
		if p.Method != m {
			errs = append(errs, fmt.Errorf("%s: parameters missing or refer to %v", name, p.Method))
			continue
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
