// Package mcp exposes the quest log and progression over the Model Context
// Protocol so agents can read and complete quests.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type Server struct {
	svc QuestService
	mcp *sdk.Server
}

func NewServer(svc QuestService, version string) *Server {
	s := &Server{
		svc: svc,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "questforge",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
