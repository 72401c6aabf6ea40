package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/status"
)

// RequireEqualStatus asserts that two errors are equal gRPC Status
// errors (same code and message). Library errors in this module are
// always constructed with status.Errorf(), so comparing the decoded
// Status directly gives clearer failure output than require.Equal()
// on the bare errors.
func RequireEqualStatus(t *testing.T, want, got error) {
	t.Helper()
	wantStatus := status.Convert(want)
	gotStatus := status.Convert(got)
	require.Equal(t, wantStatus.Code(), gotStatus.Code(), "status code mismatch")
	require.Equal(t, wantStatus.Message(), gotStatus.Message(), "status message mismatch")
}
