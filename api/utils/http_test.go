// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/builtin/staker/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"http error", BadRequest(errors.New("bad body")), http.StatusBadRequest, "bad body"},
		{"http error without cause", &httpError{status: http.StatusTeapot}, http.StatusTeapot, ""},
		{"access denied", reverts.ErrUnauthorized, http.StatusForbidden, "caller is not admin"},
		{"state conflict", reverts.ErrAlreadyClaimed, http.StatusConflict, "lock is already claimed"},
		{"economic violation", reverts.ErrStakeBelowMinimum, http.StatusBadRequest, "below minimum"},
		{"wrapped revert", reverts.ErrTransferFailed.WithCause(errors.New("rejected")), http.StatusBadRequest, "rejected"},
		{"internal", errors.New("disk full"), http.StatusInternalServerError, "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return tt.err })
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestParseJSONStrict(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	assert.NoError(t, ParseJSON(strings.NewReader(`{"name":"x"}`), &v))
	assert.Equal(t, "x", v.Name)
	assert.Error(t, ParseJSON(strings.NewReader(`{"name":"x","extra":1}`), &v))
}

func TestPathVars(t *testing.T) {
	router := mux.NewRouter()
	var (
		got    bucket.Bucket
		id     uint64
		errs   []error
		called bool
	)
	router.HandleFunc("/{addr}/{id}/{day}/{period}", func(_ http.ResponseWriter, req *http.Request) {
		called = true
		var err error
		_, err = AddressVar(req, "addr")
		errs = append(errs, err)
		id, err = Uint64Var(req, "id")
		errs = append(errs, err)
		got, err = BucketVar(req)
		errs = append(errs, err)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/0x7567d83b7b8d80addcb281a71d54fc7b3364ffed/7/100/pm", nil))
	assert.True(t, called)
	assert.Equal(t, []error{nil, nil, nil}, errs)
	assert.Equal(t, uint64(7), id)
	assert.Equal(t, bucket.Bucket{Day: 100, Period: bucket.PM}, got)

	errs = nil
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/x/100/noon", nil))
	for _, err := range errs {
		assert.Error(t, err)
	}
}
