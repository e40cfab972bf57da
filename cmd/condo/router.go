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
	"errors"

	"github.com/blinklabs-io/condo"
	"github.com/blinklabs-io/condo/governance"
	"github.com/blinklabs-io/condo/router"
	"github.com/spf13/cobra"
)

func routerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "router",
		Short: "Point the router at a deployed engine",
	}
	cmd.AddCommand(
		routerInitCommand(),
		routerUpgradeCommand(),
		routerShowCommand(),
	)
	return cmd
}

func routerInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <address|version>",
		Short: "Set the first engine the router delegates to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFrom(cmd)
			if err != nil {
				return err
			}
			impl := parseImplementation(args[0])
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				return r.Init(ctx, caller, impl)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

func routerUpgradeCommand() *cobra.Command {
	var manager string
	cmd := &cobra.Command{
		Use:   "upgrade <address|version>",
		Short: "Swap the engine the router delegates to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFrom(cmd)
			if err != nil {
				return err
			}
			impl := parseImplementation(args[0])
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				if manager == "" {
					return r.Upgrade(ctx, caller, impl)
				}
				newManager, err := governance.ParseAddress(manager)
				if err != nil {
					return err
				}
				return r.UpgradeWithManager(ctx, caller, impl, newManager)
			})
		},
	}
	cmd.Flags().StringVar(&manager, "manager", "", "transfer management to this address with the upgrade")
	addFromFlag(cmd)
	return cmd
}

type routerStatus struct {
	Initialized    bool                `json:"initialized"`
	Implementation *router.Deployment  `json:"implementation,omitempty"`
	Manager        *governance.Address `json:"manager,omitempty"`
	Deployments    []router.Deployment `json:"deployments"`
}

func routerShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active engine and every deployed engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCondo(cmd, func(ctx context.Context, c *condo.Condo) error {
				r := c.Router()
				status := routerStatus{
					Initialized: r.Initialized(),
					Deployments: c.Registry().Deployments(),
				}
				impl, err := r.Implementation()
				switch {
				case err == nil:
					status.Implementation = &impl
					manager, err := r.Manager(ctx)
					if err != nil {
						return err
					}
					status.Manager = &manager
				case !errors.Is(err, governance.ErrUninitialized):
					return err
				}
				return printJSON(cmd.OutOrStdout(), status)
			})
		},
	}
}
