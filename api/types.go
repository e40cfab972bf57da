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

package api

import (
	"time"

	"github.com/blinklabs-io/condo/governance"
)

type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type HealthResponse struct {
	IsHealthy   bool `json:"is_healthy"`
	Initialized bool `json:"initialized"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

type ManagerResponse struct {
	Manager governance.Address `json:"manager"`
}

// AmountResponse carries an amount both in base units and as a decimal
// native-unit string
type AmountResponse struct {
	BaseUnits string `json:"base_units"`
	Value     string `json:"value"`
}

func newAmountResponse(a governance.Amount) AmountResponse {
	return AmountResponse{
		BaseUnits: a.BaseUnits(),
		Value:     a.String(),
	}
}

type ImplementationResponse struct {
	Address governance.Address `json:"address"`
	Name    string             `json:"name"`
	Version string             `json:"version"`
}

type TopicResponse struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    governance.Category `json:"category"`
	Amount      AmountResponse      `json:"amount"`
	Responsible governance.Address  `json:"responsible"`
	Status      governance.Status   `json:"status"`
	CreatedDate time.Time           `json:"created_date"`
	StartDate   *time.Time          `json:"start_date"`
	EndDate     *time.Time          `json:"end_date"`
}

func newTopicResponse(t governance.Topic) TopicResponse {
	ret := TopicResponse{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Amount:      newAmountResponse(t.Amount),
		Responsible: t.Responsible,
		Status:      t.Status,
		CreatedDate: t.CreatedDate,
	}
	if !t.StartDate.IsZero() {
		ret.StartDate = &t.StartDate
	}
	if !t.EndDate.IsZero() {
		ret.EndDate = &t.EndDate
	}
	return ret
}

type VotesResponse struct {
	Title      string `json:"title"`
	Yes        uint32 `json:"yes"`
	No         uint32 `json:"no"`
	Abstention uint32 `json:"abstention"`
	Total      uint32 `json:"total"`
}

type ResidenceResponse struct {
	Residence   governance.ResidenceID `json:"residence"`
	Residents   []governance.Address   `json:"residents"`
	NextPayment *time.Time             `json:"next_payment"`
}

type ResidentResponse struct {
	Wallet      governance.Address     `json:"wallet"`
	Residence   governance.ResidenceID `json:"residence"`
	IsCounselor bool                   `json:"is_counselor"`
}
