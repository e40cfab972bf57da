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
	"time"

	"github.com/blinklabs-io/condo/governance"
	"github.com/blinklabs-io/condo/router"
	"github.com/spf13/cobra"
)

func quotaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Pay and inspect monthly quotas",
	}
	cmd.AddCommand(
		quotaPayCommand(),
		quotaShowCommand(),
	)
	return cmd
}

func quotaPayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay <residence> <amount>",
		Short: "Pay the monthly quota of a residence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFrom(cmd)
			if err != nil {
				return err
			}
			residence, err := governance.ParseResidenceID(args[0])
			if err != nil {
				return err
			}
			value, err := governance.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				return r.PayQuota(ctx, caller, residence, value)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

type quotaStatus struct {
	MonthlyQuota    string                  `json:"monthlyQuota"`
	TreasuryBalance string                  `json:"treasuryBalance"`
	Residence       *governance.ResidenceID `json:"residence,omitempty"`
	NextPayment     *time.Time              `json:"nextPayment,omitempty"`
}

func quotaShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [residence]",
		Short: "Show the monthly quota, the treasury balance and when a residence is due",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var residence *governance.ResidenceID
			if len(args) == 1 {
				id, err := governance.ParseResidenceID(args[0])
				if err != nil {
					return err
				}
				residence = &id
			}
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				quota, err := r.MonthlyQuota(ctx)
				if err != nil {
					return err
				}
				balance, err := r.TreasuryBalance(ctx)
				if err != nil {
					return err
				}
				status := quotaStatus{
					MonthlyQuota:    quota.String(),
					TreasuryBalance: balance.String(),
					Residence:       residence,
				}
				if residence != nil {
					next, err := r.NextPayment(ctx, *residence)
					if err != nil {
						return err
					}
					if !next.IsZero() {
						status.NextPayment = &next
					}
				}
				return printJSON(cmd.OutOrStdout(), status)
			})
		},
	}
}
