package varset

// Category values accepted by the platform.
const (
	CategoryTerraform = "terraform"
	CategoryEnv       = "env"
)

// Variable describes one desired variable within a varset.
type Variable struct {
	Key         string `yaml:"key" validate:"required"`
	Value       string `yaml:"value"`
	Description string `yaml:"description,omitempty"`
	Category    string `yaml:"category,omitempty" validate:"omitempty,oneof=terraform env"`
	Sensitive   bool   `yaml:"sensitive,omitempty"`
	HCL         bool   `yaml:"hcl,omitempty"`
}

// EffectiveCategory returns the category the platform will store, defaulting
// to terraform when unset.
func (v Variable) EffectiveCategory() string {
	if v.Category == "" {
		return CategoryTerraform
	}
	return v.Category
}

// Spec is the desired state of one varset. This tool manages global priority
// varsets only, so Global and Priority are expected to be true.
type Spec struct {
	Name        string
	Description string
	Global      bool
	Priority    bool
	Variables   []Variable
}

// Remote is the observed state of a varset on the platform.
type Remote struct {
	ID          string
	Name        string
	Description string
	Global      bool
	Priority    bool
}

// RemoteVariable is the observed state of one variable within a varset.
// Sensitive values read back redacted; Value is not meaningful when
// Sensitive is true.
type RemoteVariable struct {
	ID          string
	Key         string
	Value       string
	Description string
	Category    string
	Sensitive   bool
	HCL         bool
}
