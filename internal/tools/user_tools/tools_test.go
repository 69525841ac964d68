package user_tools

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/tickdone/internal/server"
)

func TestGetClient_NotInitialized(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)

	_, err := getClient(sc)
	if err == nil {
		t.Fatal("expected error when client is not initialized")
	}
}

func TestRegisterUserTools(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
	}{
		{name: "read-write", readOnly: false},
		{name: "read-only", readOnly: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mcpserver.NewMCPServer("test", "0.0.0")
			sc := server.NewServerContext(context.Background(), nil)

			if err := RegisterUserTools(s, sc, tt.readOnly); err != nil {
				t.Fatalf("RegisterUserTools() error = %v", err)
			}
		})
	}
}
