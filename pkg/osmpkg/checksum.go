// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"bufio"
	"crypto/md5" //nolint:gosec // change detection, not a security boundary
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// ChecksumFileName is the manifest written into every package.
	ChecksumFileName = "checksums.txt"

	// DigestMD5 produces 32 hex character digests.
	DigestMD5 DigestAlgorithm = "md5"
	// DigestSHA256 produces 64 hex character digests.
	DigestSHA256 DigestAlgorithm = "sha256"

	checksumChunkSize = 4096
)

// ErrInvalidDigestAlgorithm is the sentinel error wrapped by InvalidDigestAlgorithmError.
var ErrInvalidDigestAlgorithm = errors.New("invalid digest algorithm")

type (
	// DigestAlgorithm names the hash used for the checksum manifest.
	DigestAlgorithm string

	// InvalidDigestAlgorithmError is returned for an unknown DigestAlgorithm.
	InvalidDigestAlgorithmError struct {
		Value DigestAlgorithm
	}

	// ChecksumEntry is one manifest line.
	ChecksumEntry struct {
		Digest string
		Path   string
	}
)

// Error implements the error interface.
func (e *InvalidDigestAlgorithmError) Error() string {
	return fmt.Sprintf("invalid digest algorithm %q (expected md5 or sha256)", e.Value)
}

// Unwrap returns ErrInvalidDigestAlgorithm for errors.Is() compatibility.
func (e *InvalidDigestAlgorithmError) Unwrap() error { return ErrInvalidDigestAlgorithm }

// Validate returns an error unless a is md5 or sha256.
func (a DigestAlgorithm) Validate() error {
	switch a {
	case DigestMD5, DigestSHA256:
		return nil
	default:
		return &InvalidDigestAlgorithmError{Value: a}
	}
}

// New returns a fresh hash for a.
func (a DigestAlgorithm) New() (hash.Hash, error) {
	switch a {
	case DigestMD5:
		return md5.New(), nil //nolint:gosec // see import
	case DigestSHA256:
		return sha256.New(), nil
	default:
		return nil, &InvalidDigestAlgorithmError{Value: a}
	}
}

// ComputeFileDigest streams the file at path through algo in fixed-size
// chunks and returns the lowercase hex digest.
func ComputeFileDigest(path string, algo DigestAlgorithm) (_ string, err error) {
	h, err := algo.New()
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		// Read-only file handle; close errors are exotic (NFS edge cases).
		_ = f.Close()
	}()

	// Hiding WriterTo keeps io.CopyBuffer on the fixed-size buffer.
	buf := make([]byte, checksumChunkSize)
	if _, err := io.CopyBuffer(h, struct{ io.Reader }{f}, buf); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// ComputeChecksums digests every regular file under dir except the manifest
// itself. Entry paths are relative to dir's parent and slash-separated, so a
// package "foo_vnf" yields paths like "foo_vnf/icons/logo.png".
func ComputeChecksums(dir string, algo DigestAlgorithm) ([]ChecksumEntry, error) {
	manifestPath := filepath.Join(dir, ChecksumFileName)
	base := filepath.Dir(dir)

	var entries []ChecksumEntry
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() || path == manifestPath {
			return nil
		}

		digest, err := ComputeFileDigest(path, algo)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		entries = append(entries, ChecksumEntry{Digest: digest, Path: filepath.ToSlash(rel)})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return entries, nil
}

// WriteChecksums computes the checksums of dir and writes them to
// dir/checksums.txt as "<digest>\t<path>" lines. It returns the manifest path.
func WriteChecksums(dir string, algo DigestAlgorithm) (manifestPath string, err error) {
	entries, err := ComputeChecksums(dir, algo)
	if err != nil {
		return "", err
	}

	manifestPath = filepath.Join(dir, ChecksumFileName)
	f, err := os.Create(manifestPath)
	if err != nil {
		return "", fmt.Errorf("failed to create checksum manifest: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	w := bufio.NewWriter(f)
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", e.Digest, e.Path); err != nil {
			return "", fmt.Errorf("failed to write checksum manifest: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to write checksum manifest: %w", err)
	}

	return manifestPath, nil
}
