// Package objiotest provides conformance helpers for exercising Reader and
// Writer implementations from their package tests.
package objiotest

import (
	"github.com/google/go-cmp/cmp"
	"github.com/jungnoh/objio"
	"github.com/pkg/errors"
	"testing"
	"testing/iotest"
)

// RoundTrip writes each sample through c and reads it back, failing t on
// any error or any difference between the sample and what came back.
// Comparison uses go-cmp; pass options such as protocmp.Transform for
// types cmp cannot diff directly.
func RoundTrip[T any](t *testing.T, c objio.Codec[T], samples []T, opts ...cmp.Option) {
	t.Helper()
	for i, sample := range samples {
		data, err := objio.WriteBytes[T](c, sample)
		if err != nil {
			t.Fatalf("failed to write sample %d: %v", i, err)
		}
		got, err := objio.ReadBytes[T](c, data)
		if err != nil {
			t.Fatalf("failed to read sample %d back: %v", i, err)
		}
		if diff := cmp.Diff(sample, got, opts...); diff != "" {
			t.Fatalf("sample %d changed across a round trip (-want +got):\n%s", i, diff)
		}
	}
}

// ReadFailure fails t unless r keeps a failing source's error reachable
// through its error chain.
func ReadFailure[T any](t *testing.T, r objio.Reader[T]) {
	t.Helper()
	cause := errors.New("source failure")
	if _, err := r.Read(iotest.ErrReader(cause)); !errors.Is(err, cause) {
		t.Fatalf("source failure not in error chain: %v", err)
	}
}

// WriteFailure fails t unless w keeps a failing sink's error reachable
// through its error chain. The sample must marshal cleanly, or the sink is
// never touched.
func WriteFailure[T any](t *testing.T, w objio.Writer[T], sample T) {
	t.Helper()
	cause := errors.New("sink failure")
	if err := w.Write(failWriter{err: cause}, sample); !errors.Is(err, cause) {
		t.Fatalf("sink failure not in error chain: %v", err)
	}
}

// Garbage fails t unless r rejects data with an error.
func Garbage[T any](t *testing.T, r objio.Reader[T], data []byte) {
	t.Helper()
	if _, err := objio.ReadBytes[T](r, data); err == nil {
		t.Fatalf("reader accepted %d bytes of garbage", len(data))
	}
}

type failWriter struct {
	err error
}

func (w failWriter) Write(p []byte) (int, error) {
	return 0, w.err
}
