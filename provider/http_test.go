package provider

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/voxpersona/errors"
)

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		status    int
		wantErr   bool
		code      errors.ErrorCode
		retryable bool
	}{
		{http.StatusOK, false, "", false},
		{http.StatusBadRequest, true, errors.ErrCodeExternalService, false},
		{http.StatusInternalServerError, true, errors.ErrCodeExternalService, true},
		{http.StatusServiceUnavailable, true, errors.ErrCodeServiceUnavailable, true},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte("details"))
		}))
		resp, err := http.Get(srv.URL)
		if err != nil {
			t.Fatal(err)
		}
		err = CheckResponse("svc", resp)
		resp.Body.Close()
		srv.Close()

		if (err != nil) != tt.wantErr {
			t.Fatalf("status %d: err = %v", tt.status, err)
		}
		if err == nil {
			continue
		}
		if !errors.HasCode(err, tt.code) || errors.IsRetryable(err) != tt.retryable {
			t.Errorf("status %d: got %v (retryable=%v)", tt.status, err, errors.IsRetryable(err))
		}
	}
}

func TestTransportError(t *testing.T) {
	err := TransportError(context.Background(), "svc", stderrors.New("dial tcp: refused"))
	if !errors.HasCode(err, errors.ErrCodeConnectionFailed) {
		t.Errorf("err = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	plain := stderrors.New("canceled")
	if got := TransportError(ctx, "svc", plain); got != plain {
		t.Errorf("caller cancellation should pass through, got %v", got)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	if !Ping(context.Background(), srv.Client(), srv.URL+"/health") {
		t.Error("expected healthy")
	}
	if Ping(context.Background(), srv.Client(), srv.URL+"/other") {
		t.Error("expected unhealthy")
	}
}
