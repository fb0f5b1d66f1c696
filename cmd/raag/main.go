package main

import (
	"fmt"
	"os"

	"github.com/Aum2411/Task-4-Raag/internal/cli"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "raag",
	Short: "RAG agent for deep research and task delegation",
}

func main() {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cli.SetupCLI(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
