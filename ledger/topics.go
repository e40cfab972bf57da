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

package ledger

import (
	"context"
	"fmt"

	"github.com/blinklabs-io/condo/event"
	"github.com/blinklabs-io/condo/governance"
)

// validateTopic checks the fields each category requires
func validateTopic(
	category governance.Category,
	amount governance.Amount,
	responsible governance.Address,
) error {
	switch category {
	case governance.CategoryDecision:
		if !amount.IsZero() {
			return fmt.Errorf("%w: %s topics cannot carry an amount", governance.ErrInvalidCategory, category)
		}
	case governance.CategorySpent:
		if amount.IsZero() {
			return fmt.Errorf("%w: %s topics require an amount", governance.ErrInvalidCategory, category)
		}
		if responsible.IsZero() {
			return fmt.Errorf("%w: %s topics require a responsible address", governance.ErrInvalidCategory, category)
		}
	case governance.CategoryChangeQuota:
		if amount.IsZero() {
			return fmt.Errorf("%w: %s topics require an amount", governance.ErrInvalidCategory, category)
		}
	case governance.CategoryChangeManager:
		if !amount.IsZero() {
			return fmt.Errorf("%w: %s topics cannot carry an amount", governance.ErrInvalidCategory, category)
		}
		if responsible.IsZero() {
			return fmt.Errorf("%w: %s topics require a responsible address", governance.ErrInvalidCategory, category)
		}
	default:
		return governance.ErrInvalidCategory
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return governance.ErrEmptyTitle
	}
	if len(title) > governance.MaxTitleLength {
		return governance.ErrTitleTooLong
	}
	return nil
}

// loadTopic returns the stored topic or ErrTopicNotFound
func loadTopic(txn governance.StoreTxn, title string) (*governance.Topic, error) {
	if len(title) > governance.MaxTitleLength {
		return nil, governance.ErrTitleTooLong
	}
	topic, err := txn.Topic(title)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, governance.ErrTopicNotFound
	}
	return topic, nil
}

func (e *Engine) AddTopic(
	ctx context.Context,
	caller governance.Address,
	req governance.TopicRequest,
) error {
	return e.run(ctx, governance.OpAddTopic, caller, func(c *call) error {
		if err := c.authorize(governance.OpAddTopic); err != nil {
			return err
		}
		if err := validateTitle(req.Title); err != nil {
			return err
		}
		existing, err := c.Topic(req.Title)
		if err != nil {
			return err
		}
		if existing != nil {
			return governance.ErrDuplicateTopic
		}
		if err := validateTopic(req.Category, req.Amount, req.Responsible); err != nil {
			return err
		}
		topic := governance.Topic{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Amount:      req.Amount,
			Responsible: req.Responsible,
			Status:      governance.StatusIdle,
			CreatedDate: c.now,
		}
		if err := c.SetTopic(topic); err != nil {
			return err
		}
		c.emit(event.TopicAddedEventType, event.TopicEvent{Caller: caller, Topic: topic})
		return nil
	})
}

// EditTopic replaces the editable fields of an idle topic
func (e *Engine) EditTopic(
	ctx context.Context,
	caller governance.Address,
	title string,
	update governance.TopicUpdate,
) error {
	return e.run(ctx, governance.OpEditTopic, caller, func(c *call) error {
		if err := c.authorize(governance.OpEditTopic); err != nil {
			return err
		}
		topic, err := loadTopic(c, title)
		if err != nil {
			return err
		}
		if topic.Status != governance.StatusIdle {
			return governance.ErrTopicNotIdle
		}
		if err := validateTopic(topic.Category, update.Amount, update.Responsible); err != nil {
			return err
		}
		topic.Description = update.Description
		topic.Amount = update.Amount
		topic.Responsible = update.Responsible
		if err := c.SetTopic(*topic); err != nil {
			return err
		}
		c.emit(event.TopicEditedEventType, event.TopicEvent{Caller: caller, Topic: *topic})
		return nil
	})
}

func (e *Engine) RemoveTopic(
	ctx context.Context,
	caller governance.Address,
	title string,
) error {
	return e.run(ctx, governance.OpRemoveTopic, caller, func(c *call) error {
		if err := c.authorize(governance.OpRemoveTopic); err != nil {
			return err
		}
		topic, err := loadTopic(c, title)
		if err != nil {
			return err
		}
		if topic.Status != governance.StatusIdle {
			return governance.ErrTopicNotIdle
		}
		if err := c.DeleteTopic(title); err != nil {
			return err
		}
		c.emit(event.TopicRemovedEventType, event.TopicEvent{Caller: caller, Topic: *topic})
		return nil
	})
}

func (e *Engine) OpenVoting(
	ctx context.Context,
	caller governance.Address,
	title string,
) error {
	return e.run(ctx, governance.OpOpenVoting, caller, func(c *call) error {
		if err := c.authorize(governance.OpOpenVoting); err != nil {
			return err
		}
		topic, err := loadTopic(c, title)
		if err != nil {
			return err
		}
		if topic.Status != governance.StatusIdle {
			return governance.ErrTopicNotIdle
		}
		topic.Status = governance.StatusVoting
		topic.StartDate = c.now
		if err := c.SetTopic(*topic); err != nil {
			return err
		}
		c.emit(event.VotingOpenedEventType, event.TopicEvent{Caller: caller, Topic: *topic})
		return nil
	})
}

// CloseVoting resolves a topic once quorum is reached and applies the
// effect of an approved CHANGE_QUOTA or CHANGE_MANAGER topic. Approved
// SPENT topics wait for Transfer.
func (e *Engine) CloseVoting(
	ctx context.Context,
	caller governance.Address,
	title string,
) error {
	return e.run(ctx, governance.OpCloseVoting, caller, func(c *call) error {
		if err := c.authorize(governance.OpCloseVoting); err != nil {
			return err
		}
		topic, err := loadTopic(c, title)
		if err != nil {
			return err
		}
		if topic.Status != governance.StatusVoting {
			return governance.ErrTopicNotVoting
		}
		tally, err := tallyVotes(c, title)
		if err != nil {
			return err
		}
		residences := e.config.Layout.Size()
		status, err := e.config.Quorum.Resolve(topic.Category, residences, tally)
		if err != nil {
			return fmt.Errorf(
				"%w (%d of %d)",
				err,
				tally.Total(),
				e.config.Quorum.MinimumVotes(topic.Category, residences),
			)
		}
		topic.Status = status
		topic.EndDate = c.now
		if err := c.SetTopic(*topic); err != nil {
			return err
		}
		if status == governance.StatusApproved {
			if err := applyResolution(c, topic); err != nil {
				return err
			}
		}
		c.emit(
			event.VotingClosedEventType,
			event.VotingClosedEvent{
				Title:    title,
				Category: topic.Category,
				Status:   status,
				Tally:    tally,
			},
		)
		return nil
	})
}

func applyResolution(c *call, topic *governance.Topic) error {
	switch topic.Category {
	case governance.CategoryChangeQuota:
		previous, err := c.MonthlyQuota()
		if err != nil {
			return err
		}
		if err := c.SetMonthlyQuota(topic.Amount); err != nil {
			return err
		}
		c.emit(
			event.QuotaChangedEventType,
			event.QuotaChangedEvent{Previous: previous, Quota: topic.Amount},
		)
	case governance.CategoryChangeManager:
		previous, err := c.Manager()
		if err != nil {
			return err
		}
		if err := c.SetManager(topic.Responsible); err != nil {
			return err
		}
		c.emit(
			event.ManagerChangedEventType,
			event.ManagerChangedEvent{Previous: previous, Manager: topic.Responsible},
		)
	}
	return nil
}

func (e *Engine) TopicExists(ctx context.Context, title string) (bool, error) {
	var ret bool
	if len(title) > governance.MaxTitleLength {
		return false, nil
	}
	err := e.view(ctx, func(txn governance.StoreTxn) error {
		topic, err := txn.Topic(title)
		ret = topic != nil
		return err
	})
	return ret, err
}

func (e *Engine) GetTopic(ctx context.Context, title string) (*governance.Topic, error) {
	var ret *governance.Topic
	err := e.view(ctx, func(txn governance.StoreTxn) error {
		var err error
		ret, err = loadTopic(txn, title)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (e *Engine) GetTopics(ctx context.Context) ([]governance.Topic, error) {
	var ret []governance.Topic
	err := e.view(ctx, func(txn governance.StoreTxn) error {
		var err error
		ret, err = txn.Topics()
		return err
	})
	return ret, err
}
