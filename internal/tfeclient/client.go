// Package tfeclient wraps the Terraform Enterprise API behind a small
// interface covering exactly the operations the sync engine needs.
package tfeclient

import (
	"context"

	"github.com/hashicorp/go-cleanhttp"
	tfe "github.com/hashicorp/go-tfe"

	"github.com/takescoop/tfe-varset-sync/internal/varset"
)

// Client is the remote surface used by the org processor and orchestrator.
// Implementations must be safe for concurrent use; one instance is shared
// across all org workers.
type Client interface {
	// ListOrganizations returns the names of every organization visible to
	// the credential.
	ListOrganizations(ctx context.Context) ([]string, error)

	// FindVarset looks up the global priority varset with the given name.
	// It returns (nil, nil) when no such varset exists; errors are reserved
	// for transport and API failures.
	FindVarset(ctx context.Context, org, name string) (*varset.Remote, error)

	CreateVarset(ctx context.Context, org string, spec varset.Spec) (*varset.Remote, error)
	DeleteVarset(ctx context.Context, varsetID string) error

	ListVariables(ctx context.Context, varsetID string) ([]varset.RemoteVariable, error)
	CreateVariable(ctx context.Context, varsetID string, v varset.Variable) (*varset.RemoteVariable, error)
	UpdateVariable(ctx context.Context, varsetID, variableID string, v varset.Variable) error
	DeleteVariable(ctx context.Context, varsetID, variableID string) error
}

// TFEClient implements Client against a live TFE / HCP Terraform instance.
type TFEClient struct {
	tfe *tfe.Client
}

var _ Client = (*TFEClient)(nil)

// New builds a TFEClient for the instance at address, authenticated with
// token. Server-side errors and rate limits are retried by the underlying
// SDK transport.
func New(address, token string) (*TFEClient, error) {
	client, err := tfe.NewClient(&tfe.Config{
		Address:           address,
		Token:             token,
		HTTPClient:        cleanhttp.DefaultPooledClient(),
		RetryServerErrors: true,
	})
	if err != nil {
		return nil, err
	}

	return &TFEClient{tfe: client}, nil
}

const (
	orgPageSize      = 100
	varsetPageSize   = 20
	variablePageSize = 100
)

func (c *TFEClient) ListOrganizations(ctx context.Context) ([]string, error) {
	opts := &tfe.OrganizationListOptions{
		ListOptions: tfe.ListOptions{PageSize: orgPageSize},
	}

	var names []string
	for {
		list, err := c.tfe.Organizations.List(ctx, opts)
		if err != nil {
			return nil, classify(err, "organizations")
		}

		for _, org := range list.Items {
			names = append(names, org.Name)
		}

		if list.CurrentPage >= list.TotalPages {
			break
		}
		opts.PageNumber = list.NextPage
	}

	return names, nil
}

func (c *TFEClient) FindVarset(ctx context.Context, org, name string) (*varset.Remote, error) {
	opts := &tfe.VariableSetListOptions{
		ListOptions: tfe.ListOptions{PageSize: varsetPageSize},
	}

	for {
		list, err := c.tfe.VariableSets.List(ctx, org, opts)
		if err != nil {
			return nil, classify(err, "varsets")
		}

		for _, vs := range list.Items {
			if vs.Name == name && vs.Global && vs.Priority {
				return toRemote(vs), nil
			}
		}

		if list.CurrentPage >= list.TotalPages {
			break
		}
		opts.PageNumber = list.NextPage
	}

	return nil, nil
}

func (c *TFEClient) CreateVarset(ctx context.Context, org string, spec varset.Spec) (*varset.Remote, error) {
	vs, err := c.tfe.VariableSets.Create(ctx, org, &tfe.VariableSetCreateOptions{
		Name:        tfe.String(spec.Name),
		Description: tfe.String(spec.Description),
		Global:      tfe.Bool(spec.Global),
		Priority:    tfe.Bool(spec.Priority),
	})
	if err != nil {
		return nil, classify(err, "varset")
	}

	return toRemote(vs), nil
}

func (c *TFEClient) DeleteVarset(ctx context.Context, varsetID string) error {
	if err := c.tfe.VariableSets.Delete(ctx, varsetID); err != nil {
		return classify(err, "varset")
	}
	return nil
}

func (c *TFEClient) ListVariables(ctx context.Context, varsetID string) ([]varset.RemoteVariable, error) {
	opts := &tfe.VariableSetVariableListOptions{
		ListOptions: tfe.ListOptions{PageSize: variablePageSize},
	}

	var vars []varset.RemoteVariable
	for {
		list, err := c.tfe.VariableSetVariables.List(ctx, varsetID, opts)
		if err != nil {
			return nil, classify(err, "varset variables")
		}

		for _, v := range list.Items {
			vars = append(vars, toRemoteVariable(v))
		}

		if list.CurrentPage >= list.TotalPages {
			break
		}
		opts.PageNumber = list.NextPage
	}

	return vars, nil
}

func (c *TFEClient) CreateVariable(ctx context.Context, varsetID string, v varset.Variable) (*varset.RemoteVariable, error) {
	created, err := c.tfe.VariableSetVariables.Create(ctx, varsetID, &tfe.VariableSetVariableCreateOptions{
		Key:         tfe.String(v.Key),
		Value:       tfe.String(v.Value),
		Description: tfe.String(v.Description),
		Category:    tfe.Category(tfe.CategoryType(v.EffectiveCategory())),
		Sensitive:   tfe.Bool(v.Sensitive),
		HCL:         tfe.Bool(v.HCL),
	})
	if err != nil {
		return nil, classify(err, "variable")
	}

	remote := toRemoteVariable(created)
	return &remote, nil
}

func (c *TFEClient) UpdateVariable(ctx context.Context, varsetID, variableID string, v varset.Variable) error {
	_, err := c.tfe.VariableSetVariables.Update(ctx, varsetID, variableID, &tfe.VariableSetVariableUpdateOptions{
		Key:         tfe.String(v.Key),
		Value:       tfe.String(v.Value),
		Description: tfe.String(v.Description),
		Sensitive:   tfe.Bool(v.Sensitive),
		HCL:         tfe.Bool(v.HCL),
	})
	if err != nil {
		return classify(err, "variable")
	}
	return nil
}

func (c *TFEClient) DeleteVariable(ctx context.Context, varsetID, variableID string) error {
	if err := c.tfe.VariableSetVariables.Delete(ctx, varsetID, variableID); err != nil {
		return classify(err, "variable")
	}
	return nil
}

func toRemote(vs *tfe.VariableSet) *varset.Remote {
	return &varset.Remote{
		ID:          vs.ID,
		Name:        vs.Name,
		Description: vs.Description,
		Global:      vs.Global,
		Priority:    vs.Priority,
	}
}

func toRemoteVariable(v *tfe.VariableSetVariable) varset.RemoteVariable {
	return varset.RemoteVariable{
		ID:          v.ID,
		Key:         v.Key,
		Value:       v.Value,
		Description: v.Description,
		Category:    string(v.Category),
		Sensitive:   v.Sensitive,
		HCL:         v.HCL,
	}
}
