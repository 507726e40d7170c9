package sync

import (
	"context"
	"fmt"
	"io"
	stdsync "sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takescoop/tfe-varset-sync/internal/logger"
	"github.com/takescoop/tfe-varset-sync/internal/tfeclient"
	"github.com/takescoop/tfe-varset-sync/internal/varset"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(logger.Options{Level: "error", Console: io.Discard})
	require.NoError(t, err)

	return log
}

// fakeClient is an in-memory Client with scriptable failures and write
// counting, safe for concurrent org workers.
type fakeClient struct {
	mu stdsync.Mutex

	orgs        []string
	listOrgsErr error

	varsetsByOrg map[string]*varset.Remote
	findErrByOrg map[string]error

	varsByVarset map[string][]varset.RemoteVariable
	listVarsErr  error

	createVarsetErr   error
	deleteVarsetErr   error
	createVarErrByKey map[string]error
	updateVarErrByKey map[string]error

	createdVarsets  []string
	deletedVarsets  []string
	createdVars     []string
	updatedVars     []string
	deletedVars     []string
	listOrgCalls    int
	writeOperations int

	nextID int
}

var _ tfeclient.Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{
		varsetsByOrg:      map[string]*varset.Remote{},
		findErrByOrg:      map[string]error{},
		varsByVarset:      map[string][]varset.RemoteVariable{},
		createVarErrByKey: map[string]error{},
		updateVarErrByKey: map[string]error{},
	}
}

func (f *fakeClient) ListOrganizations(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listOrgCalls++
	if f.listOrgsErr != nil {
		return nil, f.listOrgsErr
	}
	return f.orgs, nil
}

func (f *fakeClient) FindVarset(ctx context.Context, org, name string) (*varset.Remote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.findErrByOrg[org]; err != nil {
		return nil, err
	}

	vs, ok := f.varsetsByOrg[org]
	if !ok || vs.Name != name {
		return nil, nil
	}
	return vs, nil
}

func (f *fakeClient) CreateVarset(ctx context.Context, org string, spec varset.Spec) (*varset.Remote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.countWriteLocked()
	if f.createVarsetErr != nil {
		return nil, f.createVarsetErr
	}

	f.nextID++
	vs := &varset.Remote{
		ID:          fmt.Sprintf("varset-%d", f.nextID),
		Name:        spec.Name,
		Description: spec.Description,
		Global:      spec.Global,
		Priority:    spec.Priority,
	}
	f.varsetsByOrg[org] = vs
	f.createdVarsets = append(f.createdVarsets, org)

	return vs, nil
}

func (f *fakeClient) DeleteVarset(ctx context.Context, varsetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.countWriteLocked()
	if f.deleteVarsetErr != nil {
		return f.deleteVarsetErr
	}

	f.deletedVarsets = append(f.deletedVarsets, varsetID)
	return nil
}

func (f *fakeClient) ListVariables(ctx context.Context, varsetID string) ([]varset.RemoteVariable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listVarsErr != nil {
		return nil, f.listVarsErr
	}
	return f.varsByVarset[varsetID], nil
}

func (f *fakeClient) CreateVariable(ctx context.Context, varsetID string, v varset.Variable) (*varset.RemoteVariable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.countWriteLocked()
	if err := f.createVarErrByKey[v.Key]; err != nil {
		return nil, err
	}

	f.nextID++
	remote := varset.RemoteVariable{
		ID:          fmt.Sprintf("var-%d", f.nextID),
		Key:         v.Key,
		Value:       v.Value,
		Description: v.Description,
		Category:    v.EffectiveCategory(),
		Sensitive:   v.Sensitive,
		HCL:         v.HCL,
	}
	f.varsByVarset[varsetID] = append(f.varsByVarset[varsetID], remote)
	f.createdVars = append(f.createdVars, v.Key)

	return &remote, nil
}

func (f *fakeClient) UpdateVariable(ctx context.Context, varsetID, variableID string, v varset.Variable) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.countWriteLocked()
	if err := f.updateVarErrByKey[v.Key]; err != nil {
		return err
	}

	f.updatedVars = append(f.updatedVars, v.Key)
	return nil
}

func (f *fakeClient) DeleteVariable(ctx context.Context, varsetID, variableID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.countWriteLocked()
	f.deletedVars = append(f.deletedVars, variableID)
	return nil
}

func (f *fakeClient) countWriteLocked() {
	f.writeOperations++
}

func (f *fakeClient) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeOperations
}
