package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

// AdNetworkService orchestrates the connected ad providers. Tokens live on
// the entitled (manager) account; any non-OK provider response clears the
// stored token before the failure is reported, so a stale or revoked token
// is never retried.
type AdNetworkService struct {
	accounts  ports.AccountRepository
	clients   map[domain.AdNetwork]ports.AdNetworkClient
	publisher ports.Publisher
	log       zerolog.Logger
}

func NewAdNetworkService(accounts ports.AccountRepository, publisher ports.Publisher, log zerolog.Logger, clients ...ports.AdNetworkClient) *AdNetworkService {
	byNetwork := make(map[domain.AdNetwork]ports.AdNetworkClient, len(clients))
	for _, c := range clients {
		byNetwork[c.Network()] = c
	}
	return &AdNetworkService{accounts: accounts, clients: byNetwork, publisher: publisher, log: log}
}

func (s *AdNetworkService) Connect(ctx context.Context, ent *domain.Entitlement, input ports.ConnectInput) error {
	if input.Code == "" {
		return domain.Status(domain.CodeMissingRequiredField)
	}
	client, err := s.client(input.Network)
	if err != nil {
		return err
	}
	token, err := client.ExchangeToken(ctx, input.Code)
	if err != nil {
		return s.providerFailure(ctx, ent, input.Network, err)
	}
	if err := s.accounts.SetAdToken(ctx, ent.Entitled().ID, input.Network, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (s *AdNetworkService) ListAdAccounts(ctx context.Context, ent *domain.Entitlement, network domain.AdNetwork) ([]ports.AdAccount, error) {
	client, token, err := s.connected(ent, network)
	if err != nil {
		return nil, err
	}
	accounts, err := client.ListAdAccounts(ctx, token)
	if err != nil {
		return nil, s.providerFailure(ctx, ent, network, err)
	}
	return accounts, nil
}

func (s *AdNetworkService) ListCampaigns(ctx context.Context, ent *domain.Entitlement, input ports.ListInput) ([]ports.Campaign, error) {
	if input.AdAccountID == "" {
		return nil, domain.Status(domain.CodeMissingRequiredField)
	}
	client, token, err := s.connected(ent, input.Network)
	if err != nil {
		return nil, err
	}
	campaigns, err := client.ListCampaigns(ctx, token, input.AdAccountID)
	if err != nil {
		return nil, s.providerFailure(ctx, ent, input.Network, err)
	}
	return campaigns, nil
}

func (s *AdNetworkService) ListPixels(ctx context.Context, ent *domain.Entitlement, input ports.ListInput) ([]ports.Pixel, error) {
	if input.AdAccountID == "" {
		return nil, domain.Status(domain.CodeMissingRequiredField)
	}
	client, token, err := s.connected(ent, input.Network)
	if err != nil {
		return nil, err
	}
	pixels, err := client.ListPixels(ctx, token, input.AdAccountID)
	if err != nil {
		return nil, s.providerFailure(ctx, ent, input.Network, err)
	}
	return pixels, nil
}

// TriggerFetch hands a refresh job to the event bus. The returned success
// means the dispatch was acknowledged; downstream processing is not awaited.
func (s *AdNetworkService) TriggerFetch(ctx context.Context, ent *domain.Entitlement, businessID string, network domain.AdNetwork) error {
	if _, err := s.client(network); err != nil {
		return err
	}
	if ent.Entitled().AdToken(network) == "" {
		return domain.Status(domain.CodeNetworkNotConnected)
	}
	job := ports.FetchJob{
		AccountID:  ent.Entitled().ID,
		BusinessID: businessID,
		Network:    network,
		Requested:  time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, job); err != nil {
		return domain.Status(domain.CodeEventBus)
	}
	return nil
}

func (s *AdNetworkService) client(network domain.AdNetwork) (ports.AdNetworkClient, error) {
	client, ok := s.clients[network]
	if !ok {
		return nil, domain.Status(domain.CodeMissingRequiredField)
	}
	return client, nil
}

func (s *AdNetworkService) connected(ent *domain.Entitlement, network domain.AdNetwork) (ports.AdNetworkClient, string, error) {
	client, err := s.client(network)
	if err != nil {
		return nil, "", err
	}
	token := ent.Entitled().AdToken(network)
	if token == "" {
		return nil, "", domain.Status(domain.CodeNetworkNotConnected)
	}
	return client, token, nil
}

// providerFailure translates a provider error into its status code. When
// the provider answered non-OK the stored token is cleared as a side
// effect, not merely reported.
func (s *AdNetworkService) providerFailure(ctx context.Context, ent *domain.Entitlement, network domain.AdNetwork, err error) error {
	var apiErr *domain.AdNetworkError
	if errors.As(err, &apiErr) {
		if _, clearErr := s.accounts.ClearAdToken(ctx, ent.Entitled().ID, network); clearErr != nil {
			s.log.Error().Err(clearErr).
				Str("account_id", ent.Entitled().ID).
				Str("network", string(network)).
				Msg("failed to clear rejected token")
		}
		if network == domain.NetworkTikTok {
			return domain.Status(domain.CodeTikTokAPI)
		}
		return domain.Status(domain.CodeFacebookAPI)
	}
	return err
}
