package main

import (
	"os"

	codestreamcmder "github.com/papercomputeco/codestream/cmd/codestream"
)

func main() {
	cmd := codestreamcmder.NewCodestreamCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
