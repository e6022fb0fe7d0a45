// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"log/slog"
	"time"

	"github.com/spf13/afero"
)

type (
	// Tool scaffolds, validates and builds packages.
	// The zero value is not usable; construct with New.
	Tool struct {
		fs             afero.Fs
		renderer       Renderer
		validator      Validator
		buildTool      BuildTool
		ignorePatterns []string
		digest         DigestAlgorithm
		now            func() time.Time
		logger         *slog.Logger
	}

	// Option configures a Tool during construction.
	Option func(*Tool)
)

// DefaultIgnorePatterns are the base-name patterns left out of built packages.
var DefaultIgnorePatterns = []string{".gitignore"}

// WithFs sets the filesystem used by Create and the default validator.
// Build always works on the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(t *Tool) {
		t.fs = fs
	}
}

// WithRenderer overrides the descriptor template renderer.
func WithRenderer(r Renderer) Option {
	return func(t *Tool) {
		t.renderer = r
	}
}

// WithValidator overrides the descriptor validator.
func WithValidator(v Validator) Option {
	return func(t *Tool) {
		t.validator = v
	}
}

// WithBuildTool overrides the charm build tool.
func WithBuildTool(b BuildTool) Option {
	return func(t *Tool) {
		t.buildTool = b
	}
}

// WithIgnorePatterns replaces DefaultIgnorePatterns. Patterns use doublestar
// syntax and are matched against base names.
func WithIgnorePatterns(patterns ...string) Option {
	return func(t *Tool) {
		t.ignorePatterns = patterns
	}
}

// WithDigestAlgorithm selects the checksum manifest hash.
func WithDigestAlgorithm(a DigestAlgorithm) Option {
	return func(t *Tool) {
		t.digest = a
	}
}

// WithClock sets the time source used for README timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tool) {
		t.now = now
	}
}

// WithLogger sets the logger for pipeline progress messages.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tool) {
		t.logger = l
	}
}

// New creates a Tool. Defaults: OS filesystem, embedded templates, CUE
// validator on the same filesystem, `charm build` as build tool, md5 digests.
func New(opts ...Option) *Tool {
	t := &Tool{
		ignorePatterns: DefaultIgnorePatterns,
		digest:         DigestMD5,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.fs == nil {
		t.fs = afero.NewOsFs()
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if t.renderer == nil {
		t.renderer = NewTemplateRenderer()
	}
	if t.validator == nil {
		t.validator = NewCUEValidator(t.fs)
	}
	if t.buildTool == nil {
		t.buildTool = &ShellBuildTool{Command: DefaultBuildCommand}
	}
	return t
}
