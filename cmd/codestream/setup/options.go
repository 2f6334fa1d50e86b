package setup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/codestream/pkg/config"
	"github.com/papercomputeco/codestream/pkg/credentials"
	"github.com/papercomputeco/codestream/pkg/highlight"
	"github.com/papercomputeco/codestream/pkg/llm/client"
	"github.com/papercomputeco/codestream/pkg/render"
)

var (
	clientFlagKeys = []string{config.FlagModel, config.FlagBaseURL, config.FlagEndpoint, config.FlagTimeout}
	renderFlagKeys = []string{config.FlagHighlight, config.FlagColorProfile}
)

// RenderOptions are the flags of every command that prints Markdown.
type RenderOptions struct {
	Highlight    bool
	NoHighlight  bool
	ColorProfile string
	ForceColor   bool
}

// AddFlags registers the render flags on cmd.
func (o *RenderOptions) AddFlags(cmd *cobra.Command) {
	config.AddBoolFlag(cmd, config.RenderFlags, config.FlagHighlight, &o.Highlight)
	config.AddStringFlag(cmd, config.RenderFlags, config.FlagColorProfile, &o.ColorProfile)
	cmd.Flags().BoolVar(&o.NoHighlight, "no-highlight", false, "Write code blocks without syntax highlighting")
	cmd.Flags().BoolVar(&o.ForceColor, "force-color", false, "Keep ANSI escapes even when stdout is not a terminal")
}

// Pipeline builds the render pipeline writing to out.
func (o *RenderOptions) Pipeline(env *Env, cmd *cobra.Command, out io.Writer, extra ...render.Option) (*render.Pipeline, error) {
	config.BindRegisteredFlags(env.Viper, cmd, config.RenderFlags, renderFlagKeys)

	opts := []render.Option{render.WithLogger(env.Logger)}
	if env.Viper.GetBool("render.highlight") && !o.NoHighlight {
		profile, err := highlight.ParseProfile(env.Viper.GetString("render.color_profile"))
		if err != nil {
			return nil, err
		}
		hl := highlight.New(highlight.WithProfile(profile), highlight.WithLogger(env.Logger))
		opts = append(opts, render.WithHighlighter(hl.Highlight))
	}

	return render.New(Output(out, o.ForceColor), append(opts, extra...)...), nil
}

// ClientOptions are the flags of every command that talks to the API.
type ClientOptions struct {
	Model      string
	BaseURL    string
	Endpoint   string
	Timeout    string
	DumpStream string
	System     string

	RenderOptions
}

// AddFlags registers the client and render flags on cmd.
func (o *ClientOptions) AddFlags(cmd *cobra.Command) {
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagModel, &o.Model)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagBaseURL, &o.BaseURL)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagEndpoint, &o.Endpoint)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagTimeout, &o.Timeout)
	cmd.Flags().StringVar(&o.DumpStream, "dump-stream", "", "Append the raw event stream to this file")
	cmd.Flags().StringVarP(&o.System, "system", "s", "", "System prompt sent ahead of the conversation")
	o.RenderOptions.AddFlags(cmd)
}

// Runtime is everything a command needs to run conversation turns.
type Runtime struct {
	Client   *client.Client
	Pipeline *render.Pipeline
	Model    string

	dump *os.File
}

// Close releases the stream dump file, if any.
func (r *Runtime) Close() error {
	if r.dump == nil {
		return nil
	}
	return r.dump.Close()
}

// Build resolves flags, config and credentials into a Runtime writing to out.
func (o *ClientOptions) Build(env *Env, cmd *cobra.Command, out io.Writer) (*Runtime, error) {
	config.BindRegisteredFlags(env.Viper, cmd, config.ClientFlags, clientFlagKeys)
	v := env.Viper

	endpoint, err := client.ParseEndpoint(v.GetString("client.endpoint"))
	if err != nil {
		return nil, err
	}

	var timeout time.Duration
	if raw := v.GetString("client.timeout"); raw != "" {
		timeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", raw, err)
		}
	}

	baseURL := v.GetString("client.base_url")
	apiKey, err := resolveKey(env, baseURL)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{}
	var extra []render.Option
	if o.DumpStream != "" {
		rt.dump, err = os.OpenFile(o.DumpStream, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("opening stream dump: %w", err)
		}
		extra = append(extra, render.WithTee(rt.dump))
	}

	rt.Client, err = client.New(client.Config{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Model:    v.GetString("client.model"),
		Endpoint: endpoint,
		Timeout:  timeout,
	}, client.WithLogger(env.Logger))
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Model = rt.Client.Model()

	rt.Pipeline, err = o.Pipeline(env, cmd, out, extra...)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	return rt, nil
}

func resolveKey(env *Env, baseURL string) (string, error) {
	mgr, err := credentials.NewManager(env.ConfigDir)
	if err != nil {
		return "", fmt.Errorf("loading credentials: %w", err)
	}

	provider := credentials.ProviderForBaseURL(baseURL)
	key, source, err := mgr.Resolve(provider)
	if err != nil {
		return "", fmt.Errorf("loading credentials: %w", err)
	}
	if key == "" {
		return "", fmt.Errorf("%w for %s: set %s or run 'codestream auth %s'",
			client.ErrNoAPIKey, provider, credentials.EnvVarForProvider(provider), provider)
	}

	env.Logger.Debug("resolved API key", "provider", provider, "source", source)
	return key, nil
}

// ErrEmptyPrompt is returned when a command has nothing to send.
var ErrEmptyPrompt = errors.New("prompt is empty")
