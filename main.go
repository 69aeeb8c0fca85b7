package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/cmd"
)

func main() {
	cobra.CheckErr(cmd.NewCLI().ExecuteContext(context.Background()))
}
