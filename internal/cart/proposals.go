package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/farmbasket-app/farmbasket-backend/pkg/redis"
)

// Proposal is a pending seller-switch decision. Accepting it clears the
// cart and adds the proposed product; declining leaves the cart untouched.
// Proposals expire after the configured TTL, which counts as declining.
type Proposal struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	Product         Product   `json:"product"`
	Quantity        int       `json:"quantity"`
	CurrentSellerID string    `json:"current_seller_id"`
	NewSellerID     string    `json:"new_seller_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProposalStore holds pending proposals. Take removes the proposal so a
// decision can be applied at most once.
type ProposalStore interface {
	Put(ctx context.Context, proposal Proposal) error
	Take(ctx context.Context, sessionID, proposalID string) (Proposal, bool, error)
}

type proposalKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ProposalKey(sessionID, proposalID string) string
}

type redisProposalStore struct {
	kv  proposalKV
	ttl time.Duration
}

// NewRedisProposalStore builds the production proposal store.
func NewRedisProposalStore(kv *pkgredis.Client, ttl time.Duration) (ProposalStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("proposal ttl must be positive")
	}
	return &redisProposalStore{kv: kv, ttl: ttl}, nil
}

func (s *redisProposalStore) Put(ctx context.Context, proposal Proposal) error {
	payload, err := json.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("encoding proposal: %w", err)
	}
	key := s.kv.ProposalKey(proposal.SessionID, proposal.ID)
	if err := s.kv.Set(ctx, key, string(payload), s.ttl); err != nil {
		return fmt.Errorf("saving proposal: %w", err)
	}
	return nil
}

func (s *redisProposalStore) Take(ctx context.Context, sessionID, proposalID string) (Proposal, bool, error) {
	key := s.kv.ProposalKey(sessionID, proposalID)

	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return Proposal{}, false, nil
		}
		return Proposal{}, false, fmt.Errorf("loading proposal: %w", err)
	}

	var proposal Proposal
	if err := json.Unmarshal([]byte(raw), &proposal); err != nil {
		return Proposal{}, false, fmt.Errorf("decoding proposal: %w", err)
	}

	if err := s.kv.Del(ctx, key); err != nil {
		return Proposal{}, false, fmt.Errorf("consuming proposal: %w", err)
	}
	return proposal, true, nil
}
