package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestNewSession tests session construction and namespace fallback
func TestNewSession(t *testing.T) {
	s := NewSession("sess-1", "research")
	assert.Equal(t, "sess-1", s.ID)
	assert.Equal(t, "research", s.Namespace)
	assert.Empty(t, s.Turns)

	fallback := NewSession("sess-2", "")
	assert.Equal(t, DefaultNamespace, fallback.Namespace)
}

// TestSession_Append tests turn recording order
func TestSession_Append(t *testing.T) {
	s := NewSession("sess-1", "default")
	now := time.Now()

	s.Append(RoleUser, "what is a transformer?", now)
	s.Append(RoleAssistant, "A neural network architecture.", now.Add(time.Second))

	assert.Len(t, s.Turns, 2)
	assert.Equal(t, RoleUser, s.Turns[0].Role)
	assert.Equal(t, RoleAssistant, s.Turns[1].Role)
}

// TestSession_Recent tests history windowing
func TestSession_Recent(t *testing.T) {
	s := NewSession("sess-1", "default")
	now := time.Now()
	for i, text := range []string{"one", "two", "three", "four"} {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		s.Append(role, text, now)
	}

	recent := s.Recent(2)
	assert.Len(t, recent, 2)
	assert.Equal(t, "three", recent[0].Content)
	assert.Equal(t, "four", recent[1].Content)

	all := s.Recent(10)
	assert.Len(t, all, 4)
	assert.Equal(t, "one", all[0].Content)

	assert.Nil(t, s.Recent(0))
	assert.Nil(t, s.Recent(-1))
}

// TestSession_Recent_Copy tests that Recent returns an independent slice
func TestSession_Recent_Copy(t *testing.T) {
	s := NewSession("sess-1", "default")
	s.Append(RoleUser, "original", time.Now())

	recent := s.Recent(1)
	recent[0].Content = "mutated"

	assert.Equal(t, "original", s.Turns[0].Content)
}

// TestRouteDecision_NoDocument tests the empty-selection sentinel
func TestRouteDecision_NoDocument(t *testing.T) {
	assert.True(t, RouteDecision{}.NoDocument())
	assert.False(t, RouteDecision{DocumentIDs: []string{"doc-1"}}.NoDocument())
}

// TestRetrievalResult_Degrade tests degradation note accumulation
func TestRetrievalResult_Degrade(t *testing.T) {
	r := &RetrievalResult{Context: "some context"}
	assert.False(t, r.Degraded)

	r.Degrade("routing fell back to first document")
	r.Degrade("query optimization failed, using original query")

	assert.True(t, r.Degraded)
	assert.Equal(t, []string{
		"routing fell back to first document",
		"query optimization failed, using original query",
	}, r.Notes)
}

// TestAnswer_Degrade tests answer-level degradation
func TestAnswer_Degrade(t *testing.T) {
	a := &Answer{Text: "partial answer"}
	a.Degrade("generation truncated")

	assert.True(t, a.Degraded)
	assert.Equal(t, []string{"generation truncated"}, a.Notes)
}
