package model

// Scenario is an immutable catalog entry: a named market hypothesis with
// default parameters and the effect formula it uses.
type Scenario struct {
	ID              int          `yaml:"id" json:"id"`
	Name            string       `yaml:"name" json:"name"`
	Category        string       `yaml:"category" json:"category"`
	Description     string       `yaml:"description" json:"description"`
	AffectedRegions []string     `yaml:"affected_regions" json:"affected_regions"`
	Parameters      ParameterSet `yaml:"parameters" json:"parameters"`
	Logic           string       `yaml:"logic" json:"logic"`
	MathInfo        *MathInfo    `yaml:"math_info,omitempty" json:"math_info,omitempty"`
}

// LogicKind parses the scenario's logic tag.
func (s Scenario) LogicKind() LogicKind {
	return ParseLogicKind(s.Logic)
}

// MathInfo documents a scenario's formula for display.
type MathInfo struct {
	Title               string                  `yaml:"title" json:"title"`
	Formula             string                  `yaml:"formula" json:"formula"`
	ParametersExplained map[string]ParameterDoc `yaml:"parameters_explained,omitempty" json:"parameters_explained,omitempty"`
	RegionalWeights     map[string]string       `yaml:"regional_weights,omitempty" json:"regional_weights,omitempty"`
	Example             string                  `yaml:"example,omitempty" json:"example,omitempty"`
}

// ParameterDoc explains one parameter in math_info.
type ParameterDoc struct {
	Description string `yaml:"description" json:"description"`
	Default     string `yaml:"default" json:"default"`
	Range       string `yaml:"range,omitempty" json:"range,omitempty"`
	Effect      string `yaml:"effect,omitempty" json:"effect,omitempty"`
}
