// Package mcp exposes the expression engine and store listings as MCP tools.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"ebecollect/internal/expr"
	"ebecollect/internal/query"
)

// Querier is what the tools read from a store. *query.Facade implements it.
type Querier interface {
	expr.Source
	SpeciesNames() []string
	EccTypeNames() []string
	EventIDs(ctx context.Context, table string, filter query.Filter) ([]int64, error)
}

var _ Querier = (*query.Facade)(nil)

type Server struct {
	querier Querier
	engine  *expr.Engine
	logger  *zap.Logger
	mcp     *sdk.Server
}

func NewServer(querier Querier, opts expr.Options, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		querier: querier,
		engine:  expr.NewEngine(querier, opts),
		logger:  logger,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "ebecollect",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
