package obs

import (
	"context"
	"errors"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := RequestID(ctx); got != "abc" {
		t.Fatalf("RequestID = %q, want abc", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("RequestID on empty ctx = %q", got)
	}
}

func TestTimeDoesNotClobberError(t *testing.T) {
	want := errors.New("boom")
	err := func() (err error) {
		defer Time(context.Background(), "test.op")(&err)
		return want
	}()
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}
