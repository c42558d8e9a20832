// internal/chat/service.go

package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wanderlink/travelmatch-backend/internal/matching"
)

var (
	ErrNotAuthorized     = errors.New("messaging requires an accepted match")
	ErrCannotMessageSelf = errors.New("cannot send a message to yourself")
	ErrEmptyMessage      = errors.New("message content cannot be empty")
	ErrMessageTooLong    = errors.New("message content exceeds the maximum length")
)

// MatchSource is the slice of the match store the chat gate needs.
// Implemented by matching.Repository.
type MatchSource interface {
	FindByPair(ctx context.Context, userAID, userBID int64) (*matching.Match, error)
	AcceptedCounterparts(ctx context.Context, userID int64) ([]int64, error)
}

type Service interface {
	CanMessage(ctx context.Context, senderID, receiverID int64) (bool, error)
	SendMessage(ctx context.Context, senderID int64, dto *SendMessageDTO) (*Message, error)
	GetMessages(ctx context.Context, userID, counterpartID int64, limit, offset int) ([]*Message, error)
	ListConversations(ctx context.Context, userID int64) ([]int64, error)
	ListConversationSummaries(ctx context.Context, userID int64) ([]*ConversationSummary, error)
}

type Config struct {
	MaxMessageLength int
	PageSize         int
}

type service struct {
	repo    Repository
	matches MatchSource
	config  Config
}

func NewService(repo Repository, matches MatchSource, config Config) Service {
	if config.MaxMessageLength <= 0 {
		config.MaxMessageLength = 2000
	}
	if config.PageSize <= 0 {
		config.PageSize = 50
	}
	return &service{
		repo:    repo,
		matches: matches,
		config:  config,
	}
}

// CanMessage reports whether the pair has an accepted match. The gate is
// symmetric: either side of an accepted pair may send.
func (s *service) CanMessage(ctx context.Context, senderID, receiverID int64) (bool, error) {
	if senderID == receiverID {
		return false, nil
	}

	userAID, userBID := matching.CanonicalPair(senderID, receiverID)
	match, err := s.matches.FindByPair(ctx, userAID, userBID)
	if err != nil {
		if errors.Is(err, matching.ErrMatchNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up match: %w", err)
	}

	return match.Status == matching.StatusAccepted, nil
}

func (s *service) SendMessage(ctx context.Context, senderID int64, dto *SendMessageDTO) (*Message, error) {
	if dto.ReceiverID == senderID {
		return nil, ErrCannotMessageSelf
	}

	content := strings.TrimSpace(dto.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if len(content) > s.config.MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	allowed, err := s.CanMessage(ctx, senderID, dto.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNotAuthorized
	}

	message := &Message{
		SenderID:   senderID,
		ReceiverID: dto.ReceiverID,
		Content:    content,
	}

	if err := s.repo.Append(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	RecordMessageSent()
	return message, nil
}

func (s *service) GetMessages(ctx context.Context, userID, counterpartID int64, limit, offset int) ([]*Message, error) {
	allowed, err := s.CanMessage(ctx, userID, counterpartID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNotAuthorized
	}

	if limit <= 0 || limit > s.config.PageSize {
		limit = s.config.PageSize
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListByPair(ctx, userID, counterpartID, limit, offset)
}

func (s *service) ListConversations(ctx context.Context, userID int64) ([]int64, error) {
	counterparts, err := s.matches.AcceptedCounterparts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted matches: %w", err)
	}
	return counterparts, nil
}

func (s *service) ListConversationSummaries(ctx context.Context, userID int64) ([]*ConversationSummary, error) {
	counterparts, err := s.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*ConversationSummary, 0, len(counterparts))
	for _, counterpartID := range counterparts {
		summary := &ConversationSummary{CounterpartID: counterpartID}

		info, err := s.repo.GetUserInfo(ctx, counterpartID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user %d: %w", counterpartID, err)
		}
		if info != nil {
			summary.Username = info.Username
			summary.DisplayName = info.DisplayName
		}

		last, err := s.repo.LastMessageBetween(ctx, userID, counterpartID)
		if err != nil {
			return nil, fmt.Errorf("failed to load last message for user %d: %w", counterpartID, err)
		}
		if last != nil {
			summary.LastMessage = &last.Content
			summary.LastMessageAt = &last.CreatedAt
		}

		summaries = append(summaries, summary)
	}

	// Most recently active conversations first; never-messaged pairs last.
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].LastMessageAt, summaries[j].LastMessageAt
		switch {
		case a == nil && b == nil:
			return summaries[i].CounterpartID < summaries[j].CounterpartID
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	return summaries, nil
}
