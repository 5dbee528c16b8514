package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func siteverifyServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "server-secret", r.PostForm.Get("secret"))
		assert.Equal(t, "widget-token", r.PostForm.Get("response"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRecaptchaVerifier(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"v2 success without score", http.StatusOK, `{"success":true,"hostname":"doodh.example"}`, false},
		{"v3 good score", http.StatusOK, `{"success":true,"score":0.9,"action":"send_code"}`, false},
		{"v3 low score", http.StatusOK, `{"success":true,"score":0.1}`, true},
		{"rejected", http.StatusOK, `{"success":false,"error-codes":["timeout-or-duplicate"]}`, true},
		{"upstream error", http.StatusInternalServerError, `{}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := siteverifyServer(t, tt.status, tt.body)
			v := NewRecaptchaVerifier(srv.URL, "server-secret", 0.5)

			err := v.Verify(context.Background(), "widget-token")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecaptchaVerifier_MissingToken(t *testing.T) {
	v := NewRecaptchaVerifier("http://127.0.0.1:0", "server-secret", 0.5)
	assert.Error(t, v.Verify(context.Background(), ""))
}
