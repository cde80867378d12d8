package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/janisto/profile-composer/internal/platform/auth"
	"github.com/janisto/profile-composer/internal/platform/config"
	applog "github.com/janisto/profile-composer/internal/platform/logging"
	"github.com/janisto/profile-composer/internal/profile"
	"github.com/janisto/profile-composer/internal/profile/composer"
	"github.com/janisto/profile-composer/internal/profile/normalize"
	"github.com/janisto/profile-composer/internal/profile/render"
	"github.com/janisto/profile-composer/internal/profile/resolver"
	"github.com/janisto/profile-composer/internal/service/upstream"
)

var errNotFound = errors.New("profile not found")

type options struct {
	source      string
	upstreamURL string
	token       string
	assetBase   string
	publicURL   string
	timeout     time.Duration
	format      string
	verbose     bool
}

// cli holds the services built from the persistent flags.
type cli struct {
	opts       options
	loader     *composer.Loader
	templates  *resolver.Resolver
	dispatcher *render.Dispatcher
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "profilectl",
		Short: "Compose and render user profiles",
		Long: `profilectl composes a user's profile with its applied template and prints
the normalized view, a template definition or the rendered HTML page.

Examples:
  profilectl compose jane                       # composed view as JSON (mock source)
  profilectl compose jane --format yaml
  profilectl render jane > jane.html
  profilectl --source http --upstream-url https://api.example.com template ocean`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.source, "source", config.SourceMock, "Profile source (mock, http)")
	flags.StringVar(&c.opts.upstreamURL, "upstream-url", "", "Base URL of the upstream profile API")
	flags.StringVar(&c.opts.token, "token", "", "Bearer token for the upstream profile API")
	flags.StringVar(&c.opts.assetBase, "asset-base", "", "Base URL for relative asset paths")
	flags.StringVar(&c.opts.publicURL, "public-url", "", "Public base URL used for share links")
	flags.DurationVar(&c.opts.timeout, "timeout", 5*time.Second, "Upstream request timeout")
	flags.BoolVarP(&c.opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(c.composeCmd(), c.templateCmd(), c.renderCmd())
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	base, err := normalize.NewAssetBase(c.opts.assetBase)
	if err != nil {
		return err
	}

	var src upstream.Source
	switch c.opts.source {
	case config.SourceMock:
		src = upstream.NewMockSource()
	case config.SourceHTTP:
		if c.opts.upstreamURL == "" {
			return errors.New("--upstream-url is required for the http source")
		}
		opts := []upstream.Option{upstream.WithBaseURL(c.opts.upstreamURL)}
		if c.opts.token != "" {
			opts = append(opts, upstream.WithToken(c.opts.token))
		}
		src = upstream.NewClient(&http.Client{Timeout: c.opts.timeout}, opts...)
	default:
		return fmt.Errorf("unsupported source %q", c.opts.source)
	}

	c.templates = resolver.New(src, base)
	c.loader = composer.NewLoader(src, c.templates, base)
	c.dispatcher = render.NewDispatcher(nil, c.opts.publicURL)

	ctx := applog.ContextWithLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), c.opts.verbose))
	cmd.SetContext(ctx)
	return nil
}

// newLogger writes human-readable logs to w so that stdout carries only the
// command output.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return applog.NewConsoleLogger(w, level)
}

type composeOutput struct {
	Layout string          `json:"layout"`
	Issues normalize.Issues `json:"issues,omitempty"`
	View   profile.View    `json:"view"`
}

func (c *cli) composeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose <username>",
		Short: "Print the composed view of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.loader.Load(cmd.Context(), args[0])
			if res.View == nil {
				return fmt.Errorf("%w: %s: %w", errNotFound, args[0], res.Err)
			}
			out := composeOutput{
				Layout: c.dispatcher.LayoutName(res.View.Template),
				Issues: res.Issues,
				View:   *res.View,
			}
			return encode(cmd.OutOrStdout(), c.opts.format, out)
		},
	}
	cmd.Flags().StringVarP(&c.opts.format, "format", "f", "json", "Output format (json, yaml)")
	return cmd
}

func (c *cli) templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template <slug>",
		Short: "Print a hydrated template definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.templates.Template(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), c.opts.format, t)
		},
	}
	cmd.Flags().StringVarP(&c.opts.format, "format", "f", "json", "Output format (json, yaml)")
	return cmd
}

func (c *cli) renderCmd() *cobra.Command {
	var fragment bool
	cmd := &cobra.Command{
		Use:   "render <username>",
		Short: "Render the profile page as HTML",
		Long: `Render the profile page of username as HTML to stdout. A missing profile
renders the not found page and exits with an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			username := args[0]
			out := render.Visit(ctx, c.loader, c.dispatcher, username, auth.Anonymous())

			var component any
			switch {
			case out.State == render.StateReady && fragment:
				component = out.Node
			case out.State == render.StateReady:
				component = render.ProfilePage(out)
			case fragment:
				component = render.NotFoundCard(username)
			default:
				component = render.NotFoundPage(username)
			}
			if err := writeComponent(ctx, cmd.OutOrStdout(), component); err != nil {
				return err
			}
			if out.State != render.StateReady {
				return fmt.Errorf("%w: %s", errNotFound, username)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fragment, "fragment", false, "Render only the profile card")
	return cmd
}

func writeComponent(ctx context.Context, w io.Writer, component any) error {
	body, err := render.Bytes(ctx, component)
	if err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// encode writes v as indented JSON or as block-style YAML with the JSON
// field names.
func encode(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch format {
	case "json":
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case "yaml":
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return err
		}
		blockStyle(&doc)
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&doc); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err = w.Write(buf.Bytes())
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// blockStyle clears the flow and quoting styles the JSON input carried.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
