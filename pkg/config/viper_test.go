package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/codestream/pkg/config"
)

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	It("returns viper with defaults when no config file exists", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		defaults := config.NewDefaultConfig()
		Expect(v.GetString("client.base_url")).To(Equal(defaults.Client.BaseURL))
		Expect(v.GetString("client.model")).To(Equal(defaults.Client.Model))
		Expect(v.GetString("client.endpoint")).To(Equal("auto"))
		Expect(v.GetBool("render.highlight")).To(BeTrue())
	})

	It("reads config file values over defaults", func() {
		writeConfig(tmpDir, "[client]\nmodel = \"llama3.2\"\n")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("client.model")).To(Equal("llama3.2"))
		Expect(v.GetString("client.timeout")).To(Equal("5m"))
	})

	It("env vars take precedence over config file values", func() {
		writeConfig(tmpDir, "[render]\nhighlight = true\n")
		GinkgoT().Setenv("CODESTREAM_RENDER_HIGHLIGHT", "false")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetBool("render.highlight")).To(BeFalse())
	})
})

var _ = Describe("Flag registry", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	It("binds a set flag over env and config", func() {
		writeConfig(tmpDir, "[client]\nmodel = \"from-file\"\n")
		GinkgoT().Setenv("CODESTREAM_CLIENT_MODEL", "from-env")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		var model string
		config.AddStringFlag(cmd, config.ClientFlags, config.FlagModel, &model)
		Expect(cmd.Flags().Set("model", "from-flag")).To(Succeed())

		config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{config.FlagModel})
		Expect(v.GetString("client.model")).To(Equal("from-flag"))
	})

	It("falls through to config when the flag is not set", func() {
		writeConfig(tmpDir, "[client]\nendpoint = \"responses\"\n")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cmd := &cobra.Command{Use: "test"}
		var endpoint string
		config.AddStringFlag(cmd, config.ClientFlags, config.FlagEndpoint, &endpoint)

		config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{config.FlagEndpoint, "nonexistent"})
		Expect(v.GetString("client.endpoint")).To(Equal("responses"))
	})

	It("takes name, shorthand, default and usage from the registry", func() {
		cmd := &cobra.Command{Use: "test"}
		var model string
		config.AddStringFlag(cmd, config.ClientFlags, config.FlagModel, &model)

		f := cmd.Flags().Lookup("model")
		Expect(f).NotTo(BeNil())
		Expect(f.Shorthand).To(Equal("m"))
		Expect(f.Usage).To(Equal(config.ClientFlags[config.FlagModel].Description))
		Expect(f.DefValue).To(Equal(config.NewDefaultConfig().Client.Model))
	})

	It("registers bool flags with their default", func() {
		cmd := &cobra.Command{Use: "test"}
		var hl bool
		config.AddBoolFlag(cmd, config.RenderFlags, config.FlagHighlight, &hl)

		f := cmd.Flags().Lookup("highlight")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal("true"))
		Expect(hl).To(BeTrue())
	})

	It("ignores keys missing from the registry", func() {
		cmd := &cobra.Command{Use: "test"}
		var s string
		config.AddStringFlag(cmd, config.FlagSet{}, config.FlagModel, &s)
		Expect(cmd.Flags().Lookup("model")).To(BeNil())
	})
})
