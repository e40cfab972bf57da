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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/blinklabs-io/condo/governance"
	"github.com/blinklabs-io/condo/ledger"
	"github.com/blinklabs-io/condo/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t       *testing.T
	dataDir string
}

func newCli(t *testing.T, manager governance.Address) *cli {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CONDO_MANAGER", manager.String())
	return &cli{
		t:       t,
		dataDir: t.TempDir(),
	}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--data-dir", c.dataDir))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "condo %v", args)
	return out
}

func testAddress(n byte) governance.Address {
	var ret governance.Address
	ret[0] = 0xc0
	ret[governance.AddressLength-1] = n
	return ret
}

func TestParseImplementation(t *testing.T) {
	addr := testAddress(1)
	assert.Equal(t, addr, parseImplementation(addr.String()))
	assert.Equal(
		t,
		router.DeploymentAddress(ledger.DefaultName, "1.0.0"),
		parseImplementation("1.0.0"),
	)
}

func TestVersionCommand(t *testing.T) {
	c := newCli(t, testAddress(0xff))
	out := c.mustRun("version")
	assert.Contains(t, out, "condo devel")
}

func TestGovernanceFlow(t *testing.T) {
	manager := testAddress(0xff)
	c := newCli(t, manager)
	from := func(addr governance.Address) []string {
		return []string{"--from", addr.String()}
	}

	// Nothing is forwarded before the router is initialized
	_, err := c.run("topic", "list")
	require.ErrorIs(t, err, governance.ErrUninitialized)

	c.mustRun(append([]string{"router", "init", ledger.DefaultVersion}, from(manager)...)...)

	var status routerStatus
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("router", "show")), &status))
	assert.True(t, status.Initialized)
	require.NotNil(t, status.Manager)
	assert.Equal(t, manager, *status.Manager)

	for i := range 5 {
		residence := fmt.Sprintf("110%d", i+1)
		c.mustRun(append([]string{"resident", "add", testAddress(byte(i)).String(), residence}, from(manager)...)...)
	}
	c.mustRun(append([]string{"resident", "counselor", testAddress(0).String()}, from(manager)...)...)

	var resident governance.Resident
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("resident", "show", testAddress(0).String())), &resident))
	assert.Equal(t, governance.ResidenceID(1101), resident.Residence)
	assert.True(t, resident.IsCounselor)

	// Residents may propose
	c.mustRun(append([]string{"topic", "add", "Paint the lobby", "--description", "blue"}, from(testAddress(1))...)...)
	c.mustRun(append([]string{"topic", "edit", "Paint the lobby", "--description", "green"}, from(manager)...)...)
	c.mustRun(append([]string{"topic", "open", "Paint the lobby"}, from(manager)...)...)
	for i := range 5 {
		c.mustRun(append([]string{"topic", "vote", "Paint the lobby", "yes"}, from(testAddress(byte(i)))...)...)
	}
	_, err = c.run(append([]string{"topic", "vote", "Paint the lobby", "no"}, from(testAddress(0))...)...)
	require.ErrorIs(t, err, governance.ErrDuplicateEntry)
	c.mustRun(append([]string{"topic", "close", "Paint the lobby"}, from(manager)...)...)

	var details topicDetails
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("topic", "show", "Paint the lobby")), &details))
	assert.Equal(t, "green", details.Description)
	assert.Equal(t, governance.StatusApproved, details.Status)
	assert.Equal(t, uint32(5), details.Votes.Yes)

	var topics []governance.Topic
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("topic", "list")), &topics))
	assert.Len(t, topics, 1)

	c.mustRun(append([]string{"quota", "pay", "1101", "0.01"}, from(testAddress(0))...)...)
	var quota quotaStatus
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("quota", "show", "1101")), &quota))
	assert.Equal(t, "0.01", quota.MonthlyQuota)
	assert.Equal(t, "0.01", quota.TreasuryBalance)
	assert.NotNil(t, quota.NextPayment)
}

func TestMutatingCommandsRequireFrom(t *testing.T) {
	c := newCli(t, testAddress(0xff))
	_, err := c.run("router", "init", ledger.DefaultVersion)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from")

	_, err = c.run("router", "init", ledger.DefaultVersion, "--from", "0x12")
	require.ErrorIs(t, err, governance.ErrInvalidInput)
}

func TestNonManagerCannotInit(t *testing.T) {
	c := newCli(t, testAddress(0xff))
	_, err := c.run("router", "init", ledger.DefaultVersion, "--from", testAddress(1).String())
	require.ErrorIs(t, err, governance.ErrPermissionDenied)
}
