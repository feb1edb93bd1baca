package resilience

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/kbukum/voxpersona/errors"
)

func blockUntilDone(ctx context.Context) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestCallWithTimeout_Expires(t *testing.T) {
	_, err := CallWithTimeout(context.Background(), 5*time.Millisecond, "translate", blockUntilDone)
	if !errors.HasCode(err, errors.ErrCodeTimeout) {
		t.Fatalf("err = %v, want TIMEOUT", err)
	}
	if !errors.IsRetryable(err) {
		t.Error("timeout should be retryable")
	}
}

func TestCallWithTimeout_ParentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CallWithTimeout(ctx, time.Second, "translate", blockUntilDone)
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if errors.HasCode(err, errors.ErrCodeTimeout) {
		t.Error("parent cancellation must not be reported as timeout")
	}
}

func TestCallWithTimeout_ZeroDisables(t *testing.T) {
	got, err := CallWithTimeout(context.Background(), 0, "x", func(ctx context.Context) (int, error) {
		if _, ok := ctx.Deadline(); ok {
			t.Error("no deadline expected")
		}
		return 7, nil
	})
	if err != nil || got != 7 {
		t.Errorf("got %d, %v", got, err)
	}
}

func TestCall_RetriesTimeouts(t *testing.T) {
	calls := 0
	p := Policy{Timeout: 5 * time.Millisecond, Retry: fastRetry(2)}
	_, err := Call(context.Background(), p, "generate", func(ctx context.Context) (string, error) {
		calls++
		return blockUntilDone(ctx)
	})
	if !errors.HasCode(err, errors.ErrCodeTimeout) {
		t.Fatalf("err = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
