// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router_test

import (
	"testing"

	"github.com/blinklabs-io/condo/governance"
	"github.com/blinklabs-io/condo/ledger"
	"github.com/blinklabs-io/condo/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeploymentAddress(t *testing.T) {
	a := router.DeploymentAddress("condominium", "1.0.0")
	assert.False(t, a.IsZero())
	assert.Equal(t, a, router.DeploymentAddress("condominium", "1.0.0"))
	assert.NotEqual(t, a, router.DeploymentAddress("condominium", "2.0.0"))
	// The separator keeps name and version from running together
	assert.NotEqual(
		t,
		router.DeploymentAddress("ab", "c"),
		router.DeploymentAddress("a", "bc"),
	)
}

func TestRegistryDeploy(t *testing.T) {
	env := newTestEnv(t)
	registry := router.NewRegistry()
	addr, err := registry.Deploy("condominium", "1.0.0", env.v1)
	require.NoError(t, err)
	assert.Equal(t, router.DeploymentAddress("condominium", "1.0.0"), addr)
	deployment, ok := registry.Lookup(addr)
	require.True(t, ok)
	assert.Equal(t, "1.0.0", deployment.Version)
	assert.Same(t, env.v1, deployment.Engine.(*ledger.Engine))

	_, err = registry.Deploy("condominium", "1.0.0", env.v2)
	require.ErrorIs(t, err, governance.ErrDuplicateEntry)
	_, err = registry.Deploy("", "1.0.0", env.v1)
	require.ErrorIs(t, err, governance.ErrInvalidInput)
	_, err = registry.Deploy("condominium", "3.0.0", nil)
	require.ErrorIs(t, err, governance.ErrInvalidInput)

	_, err = registry.Deploy("condominium", "0.9.0", env.v2)
	require.NoError(t, err)
	deployments := registry.Deployments()
	require.Len(t, deployments, 2)
	assert.Equal(t, "0.9.0", deployments[0].Version)
	assert.Equal(t, "1.0.0", deployments[1].Version)

	_, ok = registry.Lookup(governance.ZeroAddress)
	assert.False(t, ok)
}
