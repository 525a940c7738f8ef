package corvid

import (
	"context"

	"github.com/corvidware/corvid/structs"
)

// Gateway performs GET /gateway. The endpoint needs no authentication,
// but the request goes through Send and carries the session's credential.
func (s *Session) Gateway(ctx context.Context) (structs.GatewayResponse, error) {
	var out structs.GatewayResponse

	err := s.rest.Send(ctx, "GET", "/gateway", nil, "", &out)

	return out, err
}

// GatewayBot performs GET /gateway/bot, which additionally reports the
// recommended shard count and the bot's remaining session start budget.
func (s *Session) GatewayBot(ctx context.Context) (structs.GatewayBotResponse, error) {
	var out structs.GatewayBotResponse

	err := s.rest.Send(ctx, "GET", "/gateway/bot", nil, "", &out)

	return out, err
}
