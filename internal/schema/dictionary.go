package schema

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSpecies = errors.New("unknown particle species")
	ErrUnknownEccType = errors.New("unknown eccentricity type")
)

// LookupError reports a name that is absent from a fixed dictionary.
type LookupError struct {
	Kind error
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %q", e.Kind, e.Name)
}

func (e *LookupError) Unwrap() error {
	return e.Kind
}

type Species struct {
	Name string
	PID  int64
}

type EccType struct {
	ID   int64
	Name string
}

const (
	hydroOffset   = 1000
	thermalOffset = 2000
)

var baseSpecies = []Species{
	{"total", 0},
	{"charged", 1},
	{"pion", 6}, // sum(7, 8, -7)
	{"pion_p", 7},
	{"pion_0", 8},
	{"pion_m", -7},
	{"kaon", 11}, // sum(12, 13)
	{"kaon_p", 12},
	{"kaon_0", 13},
	{"anti_kaon", -11}, // sum(-12, -13)
	{"kaon_m", -12},
	{"anti_kaon_0", -13},
	{"nucleon", 16}, // sum(17, 18)
	{"proton", 17},
	{"neutron", 18},
	{"anti_nucleon", -16}, // sum(-17, -18)
	{"anti_proton", -17},
	{"anit_neutron", -18},
	{"sigma", 21}, // sum(22, 23, 24)
	{"sigma_p", 22},
	{"sigma_0", 23},
	{"sigma_m", 24},
	{"anti_sigma", -21},
	{"anti_simga_p", -22},
	{"anti_sigma_0", -23},
	{"anti_simga_m", -24},
	{"xi", 26}, // sum(27, 28)
	{"xi_0", 27},
	{"xi_m", 28},
	{"anti_xi", -26},
	{"anti_xi_0", -27},
	{"anti_xi_m", -28},
	{"lambda", 31},
	{"anti_lambda", -31},
	{"omega", 36},
	{"anti_omega", -36},
	{"phi", 41},
}

var eccTypes = []EccType{
	{ID: 1, Name: "sd"}, // entropy density weighted
	{ID: 2, Name: "ed"}, // energy density weighted
}

var (
	species    = buildSpecies()
	pidByName  = indexSpecies(species)
	eccIDByKey = indexEccTypes(eccTypes)
)

// buildSpecies expands every base code with its _hydro and _thermal variants.
func buildSpecies() []Species {
	out := make([]Species, 0, 3*len(baseSpecies))
	out = append(out, baseSpecies...)
	for _, s := range baseSpecies {
		out = append(out,
			Species{Name: s.Name + "_hydro", PID: offset(s.PID, hydroOffset)},
			Species{Name: s.Name + "_thermal", PID: offset(s.PID, thermalOffset)},
		)
	}
	return out
}

func offset(pid, by int64) int64 {
	if pid >= 0 {
		return pid + by
	}
	return pid - by
}

func indexSpecies(list []Species) map[string]int64 {
	idx := make(map[string]int64, len(list))
	for _, s := range list {
		idx[s.Name] = s.PID
	}
	return idx
}

func indexEccTypes(list []EccType) map[string]int64 {
	idx := make(map[string]int64, len(list))
	for _, e := range list {
		idx[e.Name] = e.ID
	}
	return idx
}

// AllSpecies returns a copy of the fixed particle dictionary.
func AllSpecies() []Species {
	return append([]Species(nil), species...)
}

// AllEccTypes returns a copy of the fixed eccentricity-type dictionary.
func AllEccTypes() []EccType {
	return append([]EccType(nil), eccTypes...)
}

func PID(name string) (int64, error) {
	pid, ok := pidByName[name]
	if !ok {
		return 0, &LookupError{Kind: ErrUnknownSpecies, Name: name}
	}
	return pid, nil
}

func EccID(name string) (int64, error) {
	id, ok := eccIDByKey[name]
	if !ok {
		return 0, &LookupError{Kind: ErrUnknownEccType, Name: name}
	}
	return id, nil
}
