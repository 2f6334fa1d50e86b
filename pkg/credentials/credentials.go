// Package credentials stores API keys in credentials.toml inside the
// .codestream/ directory and resolves the key to use for a request.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/codestream/pkg/dotdir"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0
)

// Supported credential providers.
const (
	ProviderOpenAI = "openai"
	ProviderGitHub = "github"
)

// providerEnvVars maps provider names to their expected environment variables.
var providerEnvVars = map[string]string{
	ProviderOpenAI: "OPENAI_API_KEY",
	ProviderGitHub: "GITHUB_TOKEN",
}

// githubHosts serve GitHub Models and take a GitHub token.
var githubHosts = []string{
	"models.github.ai",
	"models.inference.ai.azure.com",
}

// Manager manages reading and writing credentials.toml in the .codestream/ directory.
type Manager struct {
	ddm        *dotdir.Manager
	targetPath string
}

// NewManager creates a new credentials Manager. If override is non-empty it is
// used as the .codestream/ directory; otherwise the standard dotdir resolution
// applies.
func NewManager(override string) (*Manager, error) {
	mgr := &Manager{}
	mgr.ddm = dotdir.NewManager()

	target, err := mgr.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	mgr.targetPath = filepath.Join(target, credentialsFile)

	return mgr, nil
}

// Load reads credentials.toml from the target directory.
// Returns an empty Credentials if the file does not exist.
func (m *Manager) Load() (*Credentials, error) {
	data, err := os.ReadFile(m.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{
				Version:   currentVersion,
				Providers: make(map[string]ProviderCredential),
			}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	creds := &Credentials{}
	if err := toml.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	if creds.Providers == nil {
		creds.Providers = make(map[string]ProviderCredential)
	}

	return creds, nil
}

// Save writes credentials to credentials.toml with 0600 permissions.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(creds); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := os.WriteFile(m.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	return nil
}

// SetKey stores an API key for the given provider.
func (m *Manager) SetKey(provider, key string) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	creds.Providers[provider] = ProviderCredential{APIKey: key}

	return m.Save(creds)
}

// GetKey returns the stored API key for the given provider.
// Returns an empty string if no key is stored.
func (m *Manager) GetKey(provider string) (string, error) {
	creds, err := m.Load()
	if err != nil {
		return "", err
	}

	return creds.Providers[provider].APIKey, nil
}

// Resolve returns the key to use for provider and where it came from: the
// provider's environment variable wins over the stored key. Returns "", ""
// when neither is set.
func (m *Manager) Resolve(provider string) (key, source string, err error) {
	if env := EnvVarForProvider(provider); env != "" {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, env, nil
		}
	}

	key, err = m.GetKey(provider)
	if err != nil {
		return "", "", err
	}
	if key == "" {
		return "", "", nil
	}
	return key, credentialsFile, nil
}

// RemoveKey deletes the stored credential for a provider.
func (m *Manager) RemoveKey(provider string) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	delete(creds.Providers, provider)

	return m.Save(creds)
}

// ListProviders returns the names of providers that have stored credentials.
func (m *Manager) ListProviders() ([]string, error) {
	creds, err := m.Load()
	if err != nil {
		return nil, err
	}

	providers := make([]string, 0, len(creds.Providers))
	for name := range creds.Providers {
		providers = append(providers, name)
	}

	sort.Strings(providers)

	return providers, nil
}

// GetTarget returns the resolved path to the credentials file.
func (m *Manager) GetTarget() string {
	return m.targetPath
}

// EnvVarForProvider returns the environment variable name for a given provider.
// Returns an empty string for unknown providers.
func EnvVarForProvider(provider string) string {
	return providerEnvVars[provider]
}

// SupportedProviders returns the list of providers that require API keys.
func SupportedProviders() []string {
	return []string{ProviderOpenAI, ProviderGitHub}
}

// IsSupportedProvider returns true if the given provider is supported.
func IsSupportedProvider(provider string) bool {
	return slices.Contains(SupportedProviders(), provider)
}

// ProviderForBaseURL picks the credential provider for an API base URL.
// GitHub Models hosts use a GitHub token; everything else an OpenAI key.
func ProviderForBaseURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ProviderOpenAI
	}
	if slices.Contains(githubHosts, strings.ToLower(u.Hostname())) {
		return ProviderGitHub
	}
	return ProviderOpenAI
}
