// Command ampductl runs adaptive aggregation scenarios.
package main

import "github.com/sarchlab/ampductl/cmd/ampductl/cmd"

func main() {
	cmd.Execute()
}
