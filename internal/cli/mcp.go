package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/config"
	partnermcp "github.com/codewithyash28/Partner-AI-Assistant/internal/mcp"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long:  "Runs the assistant as an MCP (Model Context Protocol) server over stdio.\nExposes tools: architect, incidents, simulate, status.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, hash, err := config.LoadConfigWithHash(configPath)
	if err != nil {
		return err
	}

	sess, closeSession, err := buildSession(cfg, hash)
	if err != nil {
		return err
	}
	defer closeSession()

	srv := partnermcp.New(sess)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	fmt.Fprintln(os.Stderr, "partnerai MCP server running on stdio")
	return srv.Run(ctx)
}
