// Command selfhash computes and verifies self-hashing JSON documents
// (see pkg/selfhash and pkg/selfhashjson) from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/buildbarn/bb-selfhash/pkg/canonicaljson"
	"github.com/buildbarn/bb-selfhash/pkg/hash"
	"github.com/buildbarn/bb-selfhash/pkg/hashid"
	"github.com/buildbarn/bb-selfhash/pkg/selfhash"
	"github.com/buildbarn/bb-selfhash/pkg/selfhashjson"
	"github.com/buildbarn/bb-selfhash/pkg/util"

	"github.com/spf13/cobra"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// commonFlags are shared between the compute and verify subcommands.
type commonFlags struct {
	selfHashPaths    string
	selfHashURLPaths string
	noNewline        bool
}

func addCommonFlags(cmd *cobra.Command, flags *commonFlags) {
	cmd.Flags().StringVar(&flags.selfHashPaths, "self-hash-paths", selfhashjson.DefaultSelfHashPath,
		"comma-delimited self-hash slot paths")
	cmd.Flags().StringVar(&flags.selfHashURLPaths, "self-hash-url-paths", "",
		"comma-delimited self-hash-URL slot paths")
	cmd.Flags().BoolVar(&flags.noNewline, "no-newline", false,
		"suppress the trailing newline on output")
}

func splitPaths(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func readDocument(r io.Reader) (map[string]interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to read JSON document from standard input: %s", err)
	}
	var value map[string]interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to parse JSON document from standard input: %s", err)
	}
	return value, nil
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "selfhash",
		Short:         "Compute and verify self-hashing JSON documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newComputeCommand(), newVerifyCommand())
	return root
}

func newComputeCommand() *cobra.Command {
	var flags commonFlags
	var algorithmName, schemeName, multibaseName string

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Read a JSON document from stdin and emit its canonical self-hashed form to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runCompute(cmd.OutOrStdout(), os.Stdin, flags, algorithmName, schemeName, multibaseName); err != nil {
				return util.StatusWrapf(err, "compute failed")
			}
			return nil
		},
	}
	addCommonFlags(cmd, &flags)
	cmd.Flags().StringVar(&algorithmName, "hash-algorithm", "blake3",
		"hash algorithm to self-hash with (e.g. blake3, sha-256, sha-384, sha-512, sha3-224, sha3-256, sha3-384, sha3-512)")
	cmd.Flags().StringVar(&schemeName, "identifier-scheme", "keri",
		"identifier encoding scheme for newly-computed self-hashes: \"keri\" or \"multibase\"")
	cmd.Flags().StringVar(&multibaseName, "multibase-base", "base58btc",
		"multibase base alphabet used when --identifier-scheme=multibase")
	return cmd
}

func newVerifyCommand() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Read a JSON document from stdin and verify its self-hash, emitting the verified identifier to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runVerify(cmd.OutOrStdout(), os.Stdin, flags); err != nil {
				return util.StatusWrapf(err, "verify failed")
			}
			return nil
		},
	}
	addCommonFlags(cmd, &flags)
	return cmd
}

func runCompute(w io.Writer, r io.Reader, flags commonFlags, algorithmName, schemeName, multibaseName string) error {
	value, err := readDocument(r)
	if err != nil {
		return err
	}
	doc, err := selfhashjson.New(value, splitPaths(flags.selfHashPaths), splitPaths(flags.selfHashURLPaths))
	if err != nil {
		return err
	}

	algorithm, err := algorithmByFlagName(algorithmName)
	if err != nil {
		return err
	}
	encode, err := encoderForScheme(schemeName, multibaseName)
	if err != nil {
		return err
	}

	newDoc, _, err := selfhash.SelfHash(doc, algorithm, encode)
	if err != nil {
		return err
	}

	out, err := canonicaljson.Marshal(newDoc.(*selfhashjson.SelfHashableJSON).Value())
	if err != nil {
		return err
	}
	return writeOutput(w, out, flags.noNewline)
}

func runVerify(w io.Writer, r io.Reader, flags commonFlags) error {
	value, err := readDocument(r)
	if err != nil {
		return err
	}
	doc, err := selfhashjson.New(value, splitPaths(flags.selfHashPaths), splitPaths(flags.selfHashURLPaths))
	if err != nil {
		return err
	}

	id, err := selfhash.VerifySelfHashes(doc)
	if err != nil {
		return err
	}
	return writeOutput(w, []byte(id.String()), flags.noNewline)
}

func writeOutput(w io.Writer, data []byte, noNewline bool) error {
	if _, err := w.Write(data); err != nil {
		return status.Errorf(codes.Internal, "failed to write output: %s", err)
	}
	if !noNewline {
		if _, err := fmt.Fprintln(w); err != nil {
			return status.Errorf(codes.Internal, "failed to write output: %s", err)
		}
	}
	return nil
}

// algorithmByFlagName resolves a user-supplied algorithm name against
// the closed set of supported algorithms, matching case- and
// hyphen-insensitively (so "blake3", "BLAKE3", "sha256" and "SHA-256"
// all resolve).
func algorithmByFlagName(name string) (*hash.Algorithm, error) {
	normalized := normalizeAlgorithmName(name)
	for _, algorithm := range hash.Algorithms() {
		if normalizeAlgorithmName(algorithm.String()) == normalized {
			return algorithm, nil
		}
	}
	return nil, status.Errorf(codes.InvalidArgument, "unknown hash algorithm %q", name)
}

func normalizeAlgorithmName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "")
}

// encoderForScheme builds a selfhash.Encoder for the requested
// identifier scheme.
func encoderForScheme(schemeName, multibaseName string) (selfhash.Encoder, error) {
	switch strings.ToLower(schemeName) {
	case "keri":
		return selfhash.KERIEncoder, nil
	case "multibase":
		base, err := hashid.MultibaseEncodingByName(multibaseName)
		if err != nil {
			return nil, err
		}
		return func(d hash.Digest) (hashid.Identifier, error) {
			return hashid.EncodeMultibase(d, base)
		}, nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown identifier scheme %q: must be \"keri\" or \"multibase\"", schemeName)
	}
}

func main() {
	log.SetFlags(0)
	if err := newRootCommand().Execute(); err != nil {
		log.Print(status.Convert(err).Message())
		os.Exit(1)
	}
}
