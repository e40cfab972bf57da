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

func topicCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Propose, vote on and resolve topics",
	}
	cmd.AddCommand(
		topicAddCommand(),
		topicEditCommand(),
		topicRemoveCommand(),
		topicOpenCommand(),
		topicCloseCommand(),
		topicVoteCommand(),
		topicTransferCommand(),
		topicShowCommand(),
		topicListCommand(),
	)
	return cmd
}

type topicFlags struct {
	description string
	amount      string
	responsible string
}

func (f *topicFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.description, "description", "", "topic description")
	cmd.Flags().StringVar(&f.amount, "amount", "0", "amount in native units, such as 0.02")
	cmd.Flags().StringVar(&f.responsible, "responsible", "", "payee or proposed manager address")
}

func (f *topicFlags) parse() (governance.Amount, governance.Address, error) {
	amount, err := governance.ParseAmount(f.amount)
	if err != nil {
		return governance.Amount{}, governance.ZeroAddress, err
	}
	responsible, err := parseOptionalAddress(f.responsible)
	if err != nil {
		return governance.Amount{}, governance.ZeroAddress, err
	}
	return amount, responsible, nil
}

func topicAddCommand() *cobra.Command {
	var flags topicFlags
	var category string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Propose a new topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFrom(cmd)
			if err != nil {
				return err
			}
			cat, err := governance.ParseCategory(category)
			if err != nil {
				return err
			}
			amount, responsible, err := flags.parse()
			if err != nil {
				return err
			}
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				return r.AddTopic(ctx, caller, governance.TopicRequest{
					Title:       args[0],
					Description: flags.description,
					Category:    cat,
					Amount:      amount,
					Responsible: responsible,
				})
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(
		&category,
		"category",
		governance.CategoryDecision.String(),
		"DECISION, SPENT, CHANGE_QUOTA or CHANGE_MANAGER",
	)
	addFromFlag(cmd)
	return cmd
}

func topicEditCommand() *cobra.Command {
	var flags topicFlags
	cmd := &cobra.Command{
		Use:   "edit <title>",
		Short: "Edit an idle topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFrom(cmd)
			if err != nil {
				return err
			}
			amount, responsible, err := flags.parse()
			if err != nil {
				return err
			}
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				return r.EditTopic(ctx, caller, args[0], governance.TopicUpdate{
					Description: flags.description,
					Amount:      amount,
					Responsible: responsible,
				})
			})
		},
	}
	flags.register(cmd)
	addFromFlag(cmd)
	return cmd
}

// topicTitleCommand builds a mutating command that only takes a title
func topicTitleCommand(
	use string,
	short string,
	call func(r *router.Router, ctx context.Context, caller governance.Address, title string) error,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <title>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFrom(cmd)
			if err != nil {
				return err
			}
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				return call(r, ctx, caller, args[0])
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

func topicRemoveCommand() *cobra.Command {
	return topicTitleCommand("remove", "Remove an idle topic", (*router.Router).RemoveTopic)
}

func topicOpenCommand() *cobra.Command {
	return topicTitleCommand("open", "Open voting on a topic", (*router.Router).OpenVoting)
}

func topicCloseCommand() *cobra.Command {
	return topicTitleCommand("close", "Close voting and resolve a topic", (*router.Router).CloseVoting)
}

func topicVoteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vote <title> <YES|NO|ABSTENTION>",
		Short: "Cast the vote of the caller's residence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFrom(cmd)
			if err != nil {
				return err
			}
			option, err := governance.ParseOption(args[1])
			if err != nil {
				return err
			}
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				return r.Vote(ctx, caller, args[0], option)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

func topicTransferCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer <title> <amount>",
		Short: "Release the approved amount of a spending topic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerFrom(cmd)
			if err != nil {
				return err
			}
			amount, err := governance.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				return r.Transfer(ctx, caller, args[0], amount)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

type topicDetails struct {
	governance.Topic
	Votes governance.Tally `json:"votes"`
}

func topicShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <title>",
		Short: "Show a topic and its votes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				topic, err := r.GetTopic(ctx, args[0])
				if err != nil {
					return err
				}
				votes, err := r.GetVotes(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), topicDetails{
					Topic: *topic,
					Votes: votes,
				})
			})
		},
	}
}

func topicListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRouter(cmd, func(ctx context.Context, r *router.Router) error {
				topics, err := r.GetTopics(ctx)
				if err != nil {
					return err
				}
				if topics == nil {
					topics = []governance.Topic{}
				}
				return printJSON(cmd.OutOrStdout(), topics)
			})
		},
	}
}
