package phone

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed country_specs.yml
var countrySpecsYAML []byte

// CountrySpec holds the national significant number length rule for a calling code
type CountrySpec struct {
	Name      string   `yaml:"name"`
	MinLength int      `yaml:"min_length"`
	MaxLength int      `yaml:"max_length"`
	Countries []string `yaml:"countries,omitempty"`
}

// specs is parsed once and never written afterwards
var specs = mustParseSpecs(countrySpecsYAML)

func mustParseSpecs(data []byte) map[string]CountrySpec {
	parsed, err := parseSpecs(data)
	if err != nil {
		panic(fmt.Sprintf("phone: %v", err))
	}
	return parsed
}

func parseSpecs(data []byte) (map[string]CountrySpec, error) {
	var parsed map[string]CountrySpec
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("could not parse country specs: %w", err)
	}

	for code, spec := range parsed {
		if code == "" || cleanDigits(code) != code {
			return nil, fmt.Errorf("calling code %q must be digits only", code)
		}
		if spec.MinLength <= 0 || spec.MaxLength < spec.MinLength {
			return nil, fmt.Errorf("calling code %s has invalid length range %d-%d", code, spec.MinLength, spec.MaxLength)
		}
	}
	return parsed, nil
}

// Lookup returns the spec registered under exactly this calling code
func Lookup(code string) (CountrySpec, bool) {
	spec, ok := specs[code]
	if !ok {
		return CountrySpec{}, false
	}
	spec.Countries = slices.Clone(spec.Countries)
	return spec, true
}

// CallingCodes lists every known calling code in ascending string order
func CallingCodes() []string {
	codes := make([]string, 0, len(specs))
	for code := range specs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
