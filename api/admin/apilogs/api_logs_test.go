// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPILogsHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		start      bool
		expected   bool
		statusCode int
	}{
		{"enable", http.MethodPost, `{"enabled":true}`, false, true, http.StatusOK},
		{"disable", http.MethodPost, `{"enabled":false}`, true, false, http.StatusOK},
		{"get", http.MethodGet, "", true, true, http.StatusOK},
		{"unknown field", http.MethodPost, `{"on":true}`, false, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var enabled atomic.Bool
			enabled.Store(tt.start)

			rr := httptest.NewRecorder()
			router := mux.NewRouter()
			New(&enabled).Mount(router, "/admin/apilogs")
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, "/admin/apilogs", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.statusCode, rr.Code)
			assert.Equal(t, tt.expected, enabled.Load())
			if tt.statusCode == http.StatusOK {
				var status Status
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
				assert.Equal(t, tt.expected, status.Enabled)
			}
		})
	}
}
