package player

import (
	"errors"
	"testing"

	"github.com/riskibarqy/nba-stats-viewer/internal/domain/fetch"
	"github.com/stretchr/testify/require"
)

func TestSearch_EmptyQueryResetsImmediately(t *testing.T) {
	t.Parallel()

	s := NewSearch()
	s, arm := s.Type("cur")
	require.True(t, arm)
	s, ticket, ok := s.Issue()
	require.True(t, ok)
	require.Equal(t, "cur", ticket.Query)
	s, _ = s.Resolve(ticket, []SearchHit{{PlayerID: 201, FullName: "Stephen Curry"}}, nil)
	require.Len(t, s.Hits, 1)

	s, arm = s.Type("   ")
	require.False(t, arm)
	require.Equal(t, fetch.StatusIdle, s.Status)
	require.Empty(t, s.Hits)
}

func TestSearch_LateResponseCannotOverwriteReset(t *testing.T) {
	t.Parallel()

	s := NewSearch()
	s, _ = s.Type("jam")
	s, ticket, _ := s.Issue()

	s, _ = s.Type("")
	s, committed := s.Resolve(ticket, []SearchHit{{PlayerID: 2544, FullName: "LeBron James"}}, nil)
	require.False(t, committed)
	require.Empty(t, s.Hits)
	require.Equal(t, fetch.StatusIdle, s.Status)
}

func TestSearch_OutOfOrderResponsesKeepNewest(t *testing.T) {
	t.Parallel()

	s := NewSearch()
	s, _ = s.Type("jo")
	s, older, _ := s.Issue()
	s, _ = s.Type("jok")
	s, newer, _ := s.Issue()

	s, committed := s.Resolve(newer, []SearchHit{{PlayerID: 203999, FullName: "Nikola Jokic"}}, nil)
	require.True(t, committed)
	s, committed = s.Resolve(older, []SearchHit{{PlayerID: 1, FullName: "Joe Ingles"}}, nil)
	require.False(t, committed)
	require.Equal(t, int64(203999), s.Hits[0].PlayerID)
}

func TestSearch_ErrorAndClear(t *testing.T) {
	t.Parallel()

	s := NewSearch()
	s, _ = s.Type("tat")
	s, ticket, _ := s.Issue()
	s, committed := s.Resolve(ticket, nil, errors.New("timeout"))
	require.True(t, committed)
	require.Equal(t, fetch.StatusError, s.Status)

	s = s.Clear()
	require.Empty(t, s.Query)
	require.Equal(t, fetch.StatusIdle, s.Status)
	require.Empty(t, s.Error)
}

func TestSearch_IssueWithBlankQueryIsSkipped(t *testing.T) {
	t.Parallel()

	s := NewSearch()
	s.Query = "  "
	_, _, ok := s.Issue()
	require.False(t, ok)
}
