package provider

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kbukum/voxpersona/errors"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// CheckResponse turns a non-2xx HTTP response into an AppError. 5xx and 429
// become retryable; other statuses do not.
func CheckResponse(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	cause := fmt.Errorf("%s: status %d: %s", service, resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode == http.StatusServiceUnavailable {
		return errors.ServiceUnavailable(service).WithCause(cause)
	}
	return errors.ExternalService(service, resp.StatusCode, cause)
}

// TransportError classifies a failed http.Client.Do call. Cancellation by the
// caller is returned untouched so it is never retried.
func TransportError(ctx context.Context, service string, err error) error {
	if ctx.Err() != nil {
		return err
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Timeout(service).WithCause(err)
	}
	return errors.ConnectionFailed(service).WithCause(err)
}

// Ping reports whether GET url answers with 200.
func Ping(ctx context.Context, client *http.Client, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}
