// Package ctl implements kanbanctl, the operator tool that produces the
// MASK- values and master-key ciphertexts stored in the server config.
//
// Usage:
//
//	kanbanctl mask [--salt 00000000] [--iterations 10000] [--legacy-password ...]
//	kanbanctl encrypt --encryption-password MASK-...
//	kanbanctl decrypt --encryption-password MASK-...
//	kanbanctl keygen [--bytes 32]
//	kanbanctl fetch [--timeout 30s] <presigned-url>
//
// Secrets are read from stdin, without echo when stdin is a terminal.
package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/cryptox"
	"github.com/julianrazif/kanban-mono-repo/internal/netx"
	"github.com/julianrazif/kanban-mono-repo/internal/server/secrets"
)

const encryptionPasswordEnv = "KANBAN_ENCRYPTION_PASSWORD"

// Env is the process environment a command runs in.
type Env struct {
	Stdin   io.Reader
	StdinFD int
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
}

var errUsage = errors.New("usage: kanbanctl <mask|encrypt|decrypt|keygen|fetch> [flags]")

// Run executes the subcommand in args and returns the exit code.
func Run(args []string, env Env) int {
	if err := run(args, env); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(env.Stderr, "kanbanctl:", err)
		}
		return 1
	}
	return 0
}

func run(args []string, env Env) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "mask":
		return runMask(args[1:], env)
	case "encrypt":
		return runCipher(args[0], args[1:], env)
	case "decrypt":
		return runCipher(args[0], args[1:], env)
	case "keygen":
		return runKeygen(args[1:], env)
	case "fetch":
		return runFetch(args[1:], env)
	default:
		return fmt.Errorf("unknown command %q\n%w", args[0], errUsage)
	}
}

func newFlagSet(name string, env Env) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	return fs
}

func runMask(args []string, env Env) error {
	fs := newFlagSet("mask", env)
	salt := fs.String("salt", secrets.Salt(), "8-character salt")
	iterations := fs.Int("iterations", cryptox.Iterations, "key derivation iterations")
	password := fs.String("legacy-password", cryptox.DefaultMaskPassword, "mask codec password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	secret, err := ReadSecret(env.Stdin, env.StdinFD, env.Stderr)
	if err != nil {
		return err
	}

	masked, err := cryptox.NewMaskedCodec(*password).Encode(secret, *salt, *iterations)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.Stdout, masked)
	return err
}

// runCipher handles encrypt and decrypt with the master key.
func runCipher(name string, args []string, env Env) error {
	fs := newFlagSet(name, env)
	encryptionPassword := fs.String("encryption-password", env.Getenv(encryptionPasswordEnv), "masked master password (env "+encryptionPasswordEnv+")")
	iterations := fs.Int("iterations", cryptox.Iterations, "mask codec iterations")
	password := fs.String("legacy-password", cryptox.DefaultMaskPassword, "mask codec password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc := secrets.NewService(*encryptionPassword, *password, *iterations)
	if _, err := svc.ResolveMasterPassword(); err != nil {
		return err
	}

	input, err := ReadSecret(env.Stdin, env.StdinFD, env.Stderr)
	if err != nil {
		return err
	}

	var out string
	if name == "encrypt" {
		out, err = svc.Encode(input)
	} else {
		out, err = svc.Decode(strings.TrimSpace(input))
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.Stdout, out)
	return err
}

// runKeygen prints a random hex string usable as a JWT signing secret.
func runKeygen(args []string, env Env) error {
	fs := newFlagSet("keygen", env)
	n := fs.Int("bytes", 32, "number of random bytes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n < 16 {
		return fmt.Errorf("--bytes must be at least 16, got %d", *n)
	}

	key, err := common.MakeRandHexString(*n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.Stdout, key)
	return err
}

// runFetch downloads an archived board snapshot and prints it indented.
func runFetch(args []string, env Env) error {
	fs := newFlagSet("fetch", env)
	timeout := fs.Duration("timeout", 30*time.Second, "download timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("fetch needs exactly one presigned url")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	body, err := netx.FetchPresigned(ctx, http.DefaultClient, fs.Arg(0))
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return fmt.Errorf("snapshot is not JSON: %w", err)
	}
	pretty.WriteByte('\n')
	_, err = pretty.WriteTo(env.Stdout)
	return err
}
