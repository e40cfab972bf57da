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

package router

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/blinklabs-io/condo/governance"
	"github.com/zeebo/blake3"
)

const deploymentKeyContext = "condo 2026 deployment address"

// Deployment is an engine version reachable at a fixed address
type Deployment struct {
	Engine  governance.Engine  `json:"-"`
	Name    string             `json:"name"`
	Version string             `json:"version"`
	Address governance.Address `json:"address"`
}

// DeploymentAddress derives the address of an engine from its name and
// version
func DeploymentAddress(name string, version string) governance.Address {
	hasher := blake3.NewDeriveKey(deploymentKeyContext)
	_, _ = hasher.WriteString(name)
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(version)
	return governance.AddressFromBytes(hasher.Sum(nil))
}

// Registry holds every deployed engine. Deployments are never removed, so
// the router can always be pointed back at an earlier version.
type Registry struct {
	deployments map[governance.Address]Deployment
	mu          sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		deployments: make(map[governance.Address]Deployment),
	}
}

// Deploy registers an engine and returns its address
func (r *Registry) Deploy(
	name string,
	version string,
	engine governance.Engine,
) (governance.Address, error) {
	if name == "" || version == "" {
		return governance.ZeroAddress, fmt.Errorf(
			"%w: deployment requires a name and version",
			governance.ErrInvalidInput,
		)
	}
	if engine == nil {
		return governance.ZeroAddress, fmt.Errorf(
			"%w: deployment requires an engine",
			governance.ErrInvalidInput,
		)
	}
	addr := DeploymentAddress(name, version)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deployments[addr]; ok {
		return governance.ZeroAddress, fmt.Errorf(
			"%w: %s %s already deployed at %s",
			governance.ErrDuplicateEntry,
			name,
			version,
			addr,
		)
	}
	r.deployments[addr] = Deployment{
		Address: addr,
		Name:    name,
		Version: version,
		Engine:  engine,
	}
	return addr, nil
}

func (r *Registry) Lookup(addr governance.Address) (Deployment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret, ok := r.deployments[addr]
	return ret, ok
}

// Deployments returns every deployment ordered by name and version
func (r *Registry) Deployments() []Deployment {
	r.mu.RLock()
	ret := make([]Deployment, 0, len(r.deployments))
	for _, deployment := range r.deployments {
		ret = append(ret, deployment)
	}
	r.mu.RUnlock()
	slices.SortFunc(ret, func(a, b Deployment) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Version, b.Version)
	})
	return ret
}
