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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/blinklabs-io/condo"
	"github.com/blinklabs-io/condo/governance"
	"github.com/blinklabs-io/condo/internal/config"
	"github.com/blinklabs-io/condo/internal/node"
	"github.com/blinklabs-io/condo/ledger"
	"github.com/blinklabs-io/condo/router"
	"github.com/spf13/cobra"
)

const fromFlag = "from"

// withCondo opens the store for the duration of one command
func withCondo(
	cmd *cobra.Command,
	fn func(ctx context.Context, c *condo.Condo) error,
) (err error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return errors.New("no config found in context")
	}
	ctx := cmd.Context()
	c, err := node.Open(ctx, cfg, commandLogger(cmd))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, c.Stop())
	}()
	return fn(ctx, c)
}

func withRouter(
	cmd *cobra.Command,
	fn func(ctx context.Context, r *router.Router) error,
) error {
	return withCondo(cmd, func(ctx context.Context, c *condo.Condo) error {
		return fn(ctx, c.Router())
	})
}

// addFromFlag registers the caller identity flag on a mutating command
func addFromFlag(cmd *cobra.Command) {
	cmd.Flags().String(fromFlag, "", "address of the caller")
	_ = cmd.MarkFlagRequired(fromFlag)
}

func callerFrom(cmd *cobra.Command) (governance.Address, error) {
	from, err := cmd.Flags().GetString(fromFlag)
	if err != nil {
		return governance.ZeroAddress, err
	}
	caller, err := governance.ParseAddress(from)
	if err != nil {
		return governance.ZeroAddress, fmt.Errorf("--%s: %w", fromFlag, err)
	}
	return caller, nil
}

// parseImplementation accepts either a deployment address or the version
// of a deployed engine
func parseImplementation(s string) governance.Address {
	if addr, err := governance.ParseAddress(s); err == nil {
		return addr
	}
	return router.DeploymentAddress(ledger.DefaultName, s)
}

// parseOptionalAddress treats an empty string as the zero address
func parseOptionalAddress(s string) (governance.Address, error) {
	if s == "" {
		return governance.ZeroAddress, nil
	}
	return governance.ParseAddress(s)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
