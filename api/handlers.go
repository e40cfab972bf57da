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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blinklabs-io/condo/governance"
)

const apiName = "condo"

func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

func writeError(
	w http.ResponseWriter,
	status int,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// statusForError maps a governance error kind to an HTTP status
func statusForError(err error) int {
	switch {
	case errors.Is(err, governance.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, governance.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, governance.ErrUninitialized):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeLedgerError reports a failed ledger query. Internal errors are
// logged and never echoed to the client.
func (a *Api) writeLedgerError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		a.logger.Error(
			"ledger query failed",
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, status, "failed to query ledger")
		return
	}
	writeError(w, status, err.Error())
}

func (a *Api) handleRoot(
	w http.ResponseWriter,
	_ *http.Request,
) {
	resp := RootResponse{Name: apiName}
	if impl, err := a.reader.Implementation(); err == nil {
		resp.Version = impl.Version
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	_, err := a.reader.Implementation()
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy:   true,
		Initialized: err == nil,
	})
}

func (a *Api) handleManager(
	w http.ResponseWriter,
	r *http.Request,
) {
	manager, err := a.reader.Manager(r.Context())
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ManagerResponse{Manager: manager})
}

func (a *Api) handleQuota(
	w http.ResponseWriter,
	r *http.Request,
) {
	quota, err := a.reader.MonthlyQuota(r.Context())
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAmountResponse(quota))
}

func (a *Api) handleTreasury(
	w http.ResponseWriter,
	r *http.Request,
) {
	balance, err := a.reader.TreasuryBalance(r.Context())
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAmountResponse(balance))
}

func (a *Api) handleImplementation(
	w http.ResponseWriter,
	r *http.Request,
) {
	impl, err := a.reader.Implementation()
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ImplementationResponse{
		Address: impl.Address,
		Name:    impl.Name,
		Version: impl.Version,
	})
}

func (a *Api) handleTopics(
	w http.ResponseWriter,
	r *http.Request,
) {
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	topics, err := a.reader.GetTopics(r.Context())
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	page := Paginate(topics, params)
	resp := make([]TopicResponse, 0, len(page))
	for _, topic := range page {
		resp = append(resp, newTopicResponse(topic))
	}
	SetPaginationHeaders(w, len(topics), params)
	writeJSON(w, http.StatusOK, resp)
}

func (a *Api) handleTopic(
	w http.ResponseWriter,
	r *http.Request,
) {
	topic, err := a.reader.GetTopic(r.Context(), r.PathValue("title"))
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTopicResponse(*topic))
}

func (a *Api) handleTopicVotes(
	w http.ResponseWriter,
	r *http.Request,
) {
	title := r.PathValue("title")
	tally, err := a.reader.GetVotes(r.Context(), title)
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, VotesResponse{
		Title:      title,
		Yes:        tally.Yes,
		No:         tally.No,
		Abstention: tally.Abstention,
		Total:      tally.Total(),
	})
}

func (a *Api) handleResidence(
	w http.ResponseWriter,
	r *http.Request,
) {
	ctx := r.Context()
	id, err := governance.ParseResidenceID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	exists, err := a.reader.ResidenceExists(ctx, id)
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	if !exists {
		a.writeLedgerError(w, r, governance.ErrResidenceNotFound)
		return
	}
	residents, err := a.reader.ResidentsOf(ctx, id)
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	nextPayment, err := a.reader.NextPayment(ctx, id)
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	resp := ResidenceResponse{
		Residence: id,
		Residents: make([]governance.Address, 0, len(residents)),
	}
	for _, resident := range residents {
		resp.Residents = append(resp.Residents, resident.Wallet)
	}
	if !nextPayment.IsZero() {
		resp.NextPayment = &nextPayment
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *Api) handleResident(
	w http.ResponseWriter,
	r *http.Request,
) {
	addr, err := governance.ParseAddress(r.PathValue("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resident, err := a.reader.GetResident(r.Context(), addr)
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResidentResponse{
		Wallet:      resident.Wallet,
		Residence:   resident.Residence,
		IsCounselor: resident.IsCounselor,
	})
}
