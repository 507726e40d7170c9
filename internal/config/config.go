package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/takescoop/tfe-varset-sync/internal/varset"
	vserrors "github.com/takescoop/tfe-varset-sync/pkg/errors"
)

// Config is the declarative input describing the varset to reconcile.
type Config struct {
	TFEURL            string            `yaml:"tfe_url" validate:"required,url"`
	VarsetName        string            `yaml:"varset_name" validate:"required"`
	VarsetDescription string            `yaml:"varset_description"`
	Organizations     []string          `yaml:"organizations" validate:"omitempty,dive,required"`
	VarsetVars        []varset.Variable `yaml:"varset_vars" validate:"required,min=1,dive"`
}

// Varset returns the immutable desired state derived from the config. The
// tool manages global priority varsets only.
func (c *Config) Varset() varset.Spec {
	vars := make([]varset.Variable, len(c.VarsetVars))
	for i, v := range c.VarsetVars {
		v.Category = v.EffectiveCategory()
		vars[i] = v
	}

	return varset.Spec{
		Name:        c.VarsetName,
		Description: c.VarsetDescription,
		Global:      true,
		Priority:    true,
		Variables:   vars,
	}
}

// Load reads, parses and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vserrors.NewConfigError("", fmt.Sprintf("read %s: %v", path, err), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, vserrors.NewConfigError("", fmt.Sprintf("parse %s: %v", path, err), err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required fields, field types and variable key uniqueness.
// All violations are reported together.
func Validate(cfg *Config) error {
	var result *multierror.Error

	if err := validatorInstance().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return vserrors.NewConfigError("", err.Error(), err)
		}
		for _, fe := range fieldErrs {
			result = multierror.Append(result, fmt.Errorf("%s: failed %q validation", fieldPath(fe), fe.Tag()))
		}
	}

	seen := make(map[string]struct{}, len(cfg.VarsetVars))
	for _, v := range cfg.VarsetVars {
		if _, dup := seen[v.Key]; dup {
			result = multierror.Append(result, fmt.Errorf("varset_vars: duplicate key %q", v.Key))
		}
		seen[v.Key] = struct{}{}
	}

	if err := result.ErrorOrNil(); err != nil {
		return vserrors.NewConfigError("", err.Error(), err)
	}

	return nil
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// fieldPath renders a validator namespace like "Config.VarsetVars[0].Key"
// using the YAML-facing names.
func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	path = strings.TrimPrefix(path, "Config.")

	replacer := strings.NewReplacer(
		"TFEURL", "tfe_url",
		"VarsetName", "varset_name",
		"VarsetDescription", "varset_description",
		"Organizations", "organizations",
		"VarsetVars", "varset_vars",
		"Key", "key",
		"Value", "value",
		"Description", "description",
		"Category", "category",
		"Sensitive", "sensitive",
		"HCL", "hcl",
	)

	return replacer.Replace(path)
}
