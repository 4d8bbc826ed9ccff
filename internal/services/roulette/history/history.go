// Package history serves finished-match queries to the transports: filter
// parsing, page tokens and store access in one place.
package history

import (
	"context"
	"fmt"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/core/filter"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/storage"
	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/storage/cursor"
)

// Service reads match history.
type Service struct {
	store storage.MatchStore
}

// New returns a Service over store.
func New(store storage.MatchStore) *Service {
	return &Service{store: store}
}

// ListRequest selects a page of matches.
type ListRequest struct {
	Filter    string
	PageSize  int
	PageToken string
}

// Page is one page of matches, newest first.
type Page struct {
	Matches       []storage.MatchRecord
	NextPageToken string
}

// List returns the page described by req. A page token is only valid with
// the filter it was issued for.
func (s *Service) List(ctx context.Context, req ListRequest) (Page, error) {
	if req.PageSize < 0 {
		return Page{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("page size %d is negative", req.PageSize),
			map[string]string{"Field": "page_size"})
	}
	cond, err := filter.ParseMatchFilter(req.Filter)
	if err != nil {
		return Page{}, err
	}

	storeReq := storage.ListMatchesRequest{
		PageSize:     req.PageSize,
		FilterClause: cond.Clause,
		FilterParams: cond.Params,
	}
	if req.PageToken != "" {
		c, err := cursor.Decode(req.PageToken)
		if err == nil {
			err = cursor.ValidateFilterHash(c, req.Filter)
		}
		if err != nil {
			return Page{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
				err.Error(), map[string]string{"Field": "page_token"})
		}
		storeReq.BeforeSeq = c.Seq
	}

	result, err := s.store.ListMatches(ctx, storeReq)
	if err != nil {
		return Page{}, err
	}
	page := Page{Matches: result.Matches}
	if result.HasMore {
		token, err := cursor.Encode(cursor.New(result.LastSeq, req.Filter))
		if err != nil {
			return Page{}, err
		}
		page.NextPageToken = token
	}
	return page, nil
}

// Get returns one match.
func (s *Service) Get(ctx context.Context, id string) (storage.MatchRecord, error) {
	if id == "" {
		return storage.MatchRecord{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			"match id is required", map[string]string{"Field": "match_id"})
	}
	return s.store.GetMatch(ctx, id)
}
