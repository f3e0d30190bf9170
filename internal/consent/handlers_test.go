package consent

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/imadgeboyega/tadhana-backend/internal/common/utils"
)

func asUser(userID int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(utils.WithIdentity(r.Context(), userID, utils.RoleUser)))
		})
	}
}

func newTestRouter(userID int64) *mux.Router {
	svc := newTestService(newFakeRepository(activeMatch()), &recordingNotifier{})
	router := mux.NewRouter()
	RegisterRoutes(router, NewHandler(svc), asUser(userID))
	return router
}

func TestHandlers(t *testing.T) {
	tests := []struct {
		name     string
		userID   int64
		method   string
		path     string
		body     string
		wantCode int
		wantBody string
	}{
		{"set chat", 1, http.MethodPut, "/api/v1/matches/10/consent/chat", `{"consent":true}`, http.StatusOK, `"chat_consent":true`},
		{"set reveal", 2, http.MethodPut, "/api/v1/matches/10/consent/reveal", `{"consent":false}`, http.StatusOK, `"reveal_consent":false`},
		{"missing value", 1, http.MethodPut, "/api/v1/matches/10/consent/chat", `{}`, http.StatusBadRequest, `"success":false`},
		{"unknown field", 1, http.MethodPut, "/api/v1/matches/10/consent/chat", `{"consent":true,"x":1}`, http.StatusBadRequest, "Invalid request body"},
		{"outsider", 7, http.MethodPut, "/api/v1/matches/10/consent/chat", `{"consent":true}`, http.StatusForbidden, "not a participant"},
		{"missing match", 1, http.MethodGet, "/api/v1/matches/99/consent", "", http.StatusNotFound, "match not found"},
		{"state", 1, http.MethodGet, "/api/v1/matches/10/consent", "", http.StatusOK, `"match_id":10`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			newTestRouter(tt.userID).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
