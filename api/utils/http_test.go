// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/unfoldfi/unfold/builtin"
	"github.com/unfoldfi/unfold/builtin/reverts"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{reverts.ErrInvalidAmount, http.StatusBadRequest},
		{reverts.Errorf(reverts.ErrInsufficientBalance, "withdraw %d", 1), http.StatusBadRequest},
		{reverts.ErrOverflow, http.StatusBadRequest},
		{reverts.ErrNotOwner, http.StatusForbidden},
		{reverts.ErrEmissionNotReady, http.StatusConflict},
		{reverts.ErrRewardTooHigh, http.StatusConflict},
		{errors.Wrap(builtin.ErrNotFound, "0x01"), http.StatusNotFound},
		{BadRequest(errors.New("body")), http.StatusBadRequest},
		{errors.New("disk failure"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), tt.err.Error())
	}
}

func TestWrapHandlerFunc(t *testing.T) {
	handler := WrapHandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		return reverts.ErrNotOwner
	})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "caller is not the owner", strings.TrimSpace(rr.Body.String()))

	handler = WrapHandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		return WriteJSON(w, M{"ok": true})
	})
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, JSONContentType, rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}

func TestParseJSONStrict(t *testing.T) {
	var v struct {
		Caller string `json:"caller"`
	}
	assert.NoError(t, ParseJSON(strings.NewReader(`{"caller":"a"}`), &v))
	assert.Error(t, ParseJSON(strings.NewReader(`{"caller":"a","x":1}`), &v))
}
