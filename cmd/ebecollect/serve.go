package main

import (
	"context"

	"github.com/spf13/cobra"

	"ebecollect/internal/expr"
	"ebecollect/internal/mcp"
	"ebecollect/internal/query"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openReadOnlyDB(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	facade, err := query.Open(ctx, db)
	if err != nil {
		return err
	}

	server := mcp.NewServer(facade, expr.Options{MaxIterations: cfg.Expression.MaxIterations}, logger, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
