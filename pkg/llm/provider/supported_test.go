package provider_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/codestream/pkg/llm/provider"
)

var _ = Describe("Supported providers", func() {
	It("lists Responses before Chat Completions", func() {
		Expect(provider.SupportedProviders()).To(Equal([]string{
			provider.Responses,
			provider.ChatCompletions,
		}))
	})

	It("orders instances the same way as the names", func() {
		names := []string{}
		for _, p := range provider.Ordered() {
			names = append(names, p.Name())
		}
		Expect(names).To(Equal(provider.SupportedProviders()))
	})

	DescribeTable("New",
		func(name, path string) {
			p, err := provider.New(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name()).To(Equal(name))
			Expect(p.Path()).To(Equal(path))
		},
		Entry("responses", provider.Responses, "/responses"),
		Entry("chat completions", provider.ChatCompletions, "/chat/completions"),
	)

	It("rejects unknown names", func() {
		_, err := provider.New("anthropic")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unknown provider type"))
	})
})
