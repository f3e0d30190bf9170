package otp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendHandler(t *testing.T) {
	repo := newFakeRepository()
	require.NoError(t, repo.CreateOTP(context.Background(), &OTP{
		UserID: 5, Code: "123456", Type: OTPTypeSignup, Method: DeliveryMethodEmail,
		Recipient: "fay@up.edu.ph", ExpiresAt: time.Now().Add(time.Minute), CreatedAt: time.Now(),
	}))
	sender := &recordingSender{}

	router := mux.NewRouter()
	RegisterRoutes(router, NewHandler(newTestService(repo, sender, nil)))

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"resends", `{"recipient":"fay@up.edu.ph","type":"signup"}`, http.StatusOK},
		{"unknown recipient", `{"recipient":"ghost@up.edu.ph","type":"signup"}`, http.StatusNotFound},
		{"bad type", `{"recipient":"fay@up.edu.ph","type":"reset"}`, http.StatusBadRequest},
		{"unknown field", `{"recipient":"fay@up.edu.ph","type":"signup","x":1}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/otp/resend", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	assert.Len(t, sender.codes["fay@up.edu.ph"], 6)
}
