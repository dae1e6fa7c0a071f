package assumption

// NormalityRule controls how per-group normality verdicts are combined by the backend
type NormalityRule string

const (
	RuleAny      NormalityRule = "any"
	RuleAll      NormalityRule = "all"
	RuleMajority NormalityRule = "majority"
)

// DefaultAlpha is the significance level sent with every request
const DefaultAlpha = 0.05

// Request is the numeric backend contract. Values feeds normality and needs
// at least 3 entries; Groups feeds homogeneity and needs at least 2 non-empty groups.
type Request struct {
	Values        []float64     `json:"values,omitempty"`
	Groups        [][]float64   `json:"groups,omitempty"`
	Alpha         float64       `json:"alpha"`
	NormalityRule NormalityRule `json:"normalityRule"`
}

// HasValues reports whether normality can be requested
func (r Request) HasValues() bool {
	return len(r.Values) >= 3
}

// HasGroups reports whether homogeneity can be requested
func (r Request) HasGroups() bool {
	return len(r.Groups) >= 2
}

// ShapiroWilkPayload is the raw backend shape; every field may be absent
type ShapiroWilkPayload struct {
	Statistic *float64 `json:"statistic,omitempty"`
	PValue    *float64 `json:"pValue,omitempty"`
	IsNormal  *bool    `json:"isNormal,omitempty"`
}

// LevenePayload is the raw backend shape; every field may be absent
type LevenePayload struct {
	Statistic     *float64 `json:"statistic,omitempty"`
	PValue        *float64 `json:"pValue,omitempty"`
	EqualVariance *bool    `json:"equalVariance,omitempty"`
}

// NormalityPayload is the normality section of a backend response
type NormalityPayload struct {
	ShapiroWilk *ShapiroWilkPayload `json:"shapiroWilk,omitempty"`
}

// HomogeneityPayload is the homogeneity section of a backend response
type HomogeneityPayload struct {
	Levene *LevenePayload `json:"levene,omitempty"`
}

// Response is the full backend response
type Response struct {
	Normality   *NormalityPayload      `json:"normality,omitempty"`
	Homogeneity *HomogeneityPayload    `json:"homogeneity,omitempty"`
	Summary     map[string]interface{} `json:"summary,omitempty"`
}
