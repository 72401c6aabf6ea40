package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestComputeThenVerifyRoundTrip(t *testing.T) {
	var computed bytes.Buffer
	err := runCompute(&computed, strings.NewReader(`{"thing":3}`), commonFlags{selfHashPaths: "$.selfHash"}, "blake3", "keri", "base58btc")
	require.NoError(t, err)
	require.Contains(t, computed.String(), `"selfHash":"E`)

	var verified bytes.Buffer
	err = runVerify(&verified, strings.NewReader(computed.String()), commonFlags{selfHashPaths: "$.selfHash"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(verified.String(), "E"))
}

func TestComputeWithMultibaseScheme(t *testing.T) {
	var computed bytes.Buffer
	err := runCompute(&computed, strings.NewReader(`{"thing":3}`), commonFlags{selfHashPaths: "$.selfHash"}, "sha-256", "multibase", "base58btc")
	require.NoError(t, err)

	var verified bytes.Buffer
	err = runVerify(&verified, strings.NewReader(computed.String()), commonFlags{selfHashPaths: "$.selfHash"})
	require.NoError(t, err)
}

func TestComputeNoNewline(t *testing.T) {
	var computed bytes.Buffer
	err := runCompute(&computed, strings.NewReader(`{"thing":3}`), commonFlags{selfHashPaths: "$.selfHash", noNewline: true}, "blake3", "keri", "base58btc")
	require.NoError(t, err)
	require.False(t, strings.HasSuffix(computed.String(), "\n"))
}

func TestRunComputeRejectsUnknownAlgorithm(t *testing.T) {
	var out bytes.Buffer
	err := runCompute(&out, strings.NewReader(`{"thing":3}`), commonFlags{selfHashPaths: "$.selfHash"}, "does-not-exist", "keri", "base58btc")
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRunComputeRejectsUnknownScheme(t *testing.T) {
	var out bytes.Buffer
	err := runCompute(&out, strings.NewReader(`{"thing":3}`), commonFlags{selfHashPaths: "$.selfHash"}, "blake3", "rot13", "base58btc")
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRunVerifyRejectsMalformedJSON(t *testing.T) {
	var out bytes.Buffer
	err := runVerify(&out, strings.NewReader(`not json`), commonFlags{selfHashPaths: "$.selfHash"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRunVerifyFailsOnTamperedDocument(t *testing.T) {
	var computed bytes.Buffer
	err := runCompute(&computed, strings.NewReader(`{"thing":3}`), commonFlags{selfHashPaths: "$.selfHash"}, "blake3", "keri", "base58btc")
	require.NoError(t, err)

	tampered := strings.Replace(computed.String(), `"thing":3`, `"thing":4`, 1)
	var out bytes.Buffer
	err = runVerify(&out, strings.NewReader(tampered), commonFlags{selfHashPaths: "$.selfHash"})
	require.Error(t, err)
}

func TestAlgorithmByFlagNameIsCaseAndHyphenInsensitive(t *testing.T) {
	a, err := algorithmByFlagName("SHA256")
	require.NoError(t, err)
	require.Equal(t, "SHA-256", a.String())

	b, err := algorithmByFlagName("sha-256")
	require.NoError(t, err)
	require.Equal(t, a, b)
}
