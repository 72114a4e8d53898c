// Package hdfs invokes the external hdfs binary for directory listings,
// existence probes, and batch deletes. Invocations use structured argument
// lists; no shell is involved.
package hdfs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// DefaultBinary is looked up on PATH when no locator override is given.
const DefaultBinary = "hdfs"

// ErrBinaryNotFound indicates the hdfs binary could not be located.
var ErrBinaryNotFound = errors.New("hdfs binary not found")

// Client runs hdfs dfs subcommands against the cluster configured in the
// environment.
type Client struct {
	bin string

	// Stderr receives the child processes' diagnostic output. Defaults to
	// discarding; the CLI wires it to its own stderr.
	Stderr io.Writer
}

// NewClient locates the hdfs binary and returns a Client. binary may be an
// absolute path or a name resolved on PATH; empty means DefaultBinary.
func NewClient(binary string) (*Client, error) {
	if binary == "" {
		binary = DefaultBinary
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBinaryNotFound, binary, err)
	}

	return &Client{bin: resolved, Stderr: io.Discard}, nil
}

// Binary returns the resolved binary path.
func (c *Client) Binary() string {
	return c.bin
}

// DeleteArgv returns the full delete invocation for the given paths,
// suitable for previewing and for argument length accounting.
func (c *Client) DeleteArgv(skipTrash bool, paths []string) []string {
	argv := []string{c.bin, "dfs", "-rm"}
	if skipTrash {
		argv = append(argv, "-skipTrash")
	}
	return append(argv, paths...)
}

// Delete removes the given files in a single invocation. A non-zero exit
// status is returned as an error; callers treat it as fatal for the run.
func (c *Client) Delete(ctx context.Context, skipTrash bool, paths []string) error {
	argv := c.DeleteArgv(skipTrash, paths)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = c.Stderr
	cmd.Stdout = c.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("hdfs dfs -rm failed for %d paths: %w", len(paths), err)
	}
	return nil
}

// Exists probes whether path exists via hdfs dfs -test -e. Exit status 1
// means "does not exist"; any other failure is returned as an error.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, c.bin, "dfs", "-test", "-e", path)
	cmd.Stderr = c.Stderr

	err := cmd.Run()
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, fmt.Errorf("hdfs dfs -test -e %s: %w", path, err)
}

// List streams the recursive listing of root line by line into fn. Reading
// blocks until the child produces the next line or closes its output. A
// non-nil error from fn stops the stream and is returned unchanged.
func (c *Client) List(ctx context.Context, root string, fn func(line string) error) error {
	cmd := exec.CommandContext(ctx, c.bin, "dfs", "-ls", "-R", root)
	cmd.Stderr = c.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("hdfs dfs -ls -R %s: %w", root, err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("hdfs dfs -ls -R %s: %w", root, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var fnErr error
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if fnErr = fn(line); fnErr != nil {
			break
		}
	}

	if fnErr != nil {
		// Stop the child; its exit status is uninteresting once the
		// consumer has failed.
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fnErr
	}

	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return fmt.Errorf("reading listing of %s: %w", root, err)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("hdfs dfs -ls -R %s: %w", root, err)
	}
	return nil
}
