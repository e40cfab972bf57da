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

	"github.com/blinklabs-io/condo/governance"
	"github.com/blinklabs-io/condo/router"
	"github.com/spf13/cobra"
)

func residentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resident",
		Short: "Manage residents and counselors",
	}
	cmd.AddCommand(
		residentAddCommand(),
		residentRemoveCommand(),
		residentCounselorCommand(),
		residentShowCommand(),
	)
	return cmd
}

func residentAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <address> <residence>",
		Short: "Bind an address to a residence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFrom(cmd)
			if err != nil {
				return err
			}
			resident, err := governance.ParseAddress(args[0])
			if err != nil {
				return err
			}
			residence, err := governance.ParseResidenceID(args[1])
			if err != nil {
				return err
			}
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				return r.AddResident(ctx, caller, resident, residence)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

func residentRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <address>",
		Short: "Remove a resident",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFrom(cmd)
			if err != nil {
				return err
			}
			resident, err := governance.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				return r.RemoveResident(ctx, caller, resident)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

func residentCounselorCommand() *cobra.Command {
	var leave bool
	cmd := &cobra.Command{
		Use:   "counselor <address>",
		Short: "Appoint a resident as counselor, or dismiss one with --leave",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFrom(cmd)
			if err != nil {
				return err
			}
			resident, err := governance.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				return r.SetCounselor(ctx, caller, resident, !leave)
			})
		},
	}
	cmd.Flags().BoolVar(&leave, "leave", false, "dismiss the counselor instead")
	addFromFlag(cmd)
	return cmd
}

func residentShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <address>",
		Short: "Show the residence an address is bound to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := governance.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				resident, err := r.GetResident(ctx, addr)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resident)
			})
		},
	}
}
