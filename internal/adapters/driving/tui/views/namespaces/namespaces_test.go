package namespaces

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// MockCatalogService implements driving.CatalogService for testing.
type MockCatalogService struct {
	ListDocumentsFunc  func(ctx context.Context, namespace string) ([]domain.Document, error)
	GetDocumentFunc    func(ctx context.Context, namespace, id string) (*domain.Document, error)
	DeleteDocumentFunc func(ctx context.Context, namespace, id string) error
	ListNamespacesFunc func(ctx context.Context) ([]string, error)
	OverviewFunc       func(ctx context.Context, namespace string) (*domain.NamespaceOverview, error)
}

func (m *MockCatalogService) ListDocuments(ctx context.Context, namespace string) ([]domain.Document, error) {
	if m.ListDocumentsFunc != nil {
		return m.ListDocumentsFunc(ctx, namespace)
	}
	return []domain.Document{}, nil
}

func (m *MockCatalogService) GetDocument(ctx context.Context, namespace, id string) (*domain.Document, error) {
	if m.GetDocumentFunc != nil {
		return m.GetDocumentFunc(ctx, namespace, id)
	}
	return &domain.Document{}, nil
}

func (m *MockCatalogService) DeleteDocument(ctx context.Context, namespace, id string) error {
	if m.DeleteDocumentFunc != nil {
		return m.DeleteDocumentFunc(ctx, namespace, id)
	}
	return nil
}

func (m *MockCatalogService) ListNamespaces(ctx context.Context) ([]string, error) {
	if m.ListNamespacesFunc != nil {
		return m.ListNamespacesFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockCatalogService) Overview(ctx context.Context, namespace string) (*domain.NamespaceOverview, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx, namespace)
	}
	return &domain.NamespaceOverview{}, nil
}

func loadedMsg(namespaces []string, counts map[string]int) namespacesLoadedMsg {
	return namespacesLoadedMsg{
		NamespacesLoaded: messages.NamespacesLoaded{Namespaces: namespaces},
		DocCounts:        counts,
	}
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()
	mock := &MockCatalogService{}

	view := NewView(s, mock)

	require.NotNil(t, view)
	assert.Empty(t, view.Namespaces())
	assert.Equal(t, 0, view.SelectedIndex())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
}

func TestView_Init(t *testing.T) {
	mock := &MockCatalogService{
		ListNamespacesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"default", "team-a"}, nil
		},
	}
	view := NewView(nil, mock)

	cmd := view.Init()

	require.NotNil(t, cmd)
	result := cmd()
	msg, ok := result.(namespacesLoadedMsg)
	require.True(t, ok)
	assert.NoError(t, msg.Err)
	assert.Equal(t, []string{"default", "team-a"}, msg.Namespaces)
}

func TestView_LoadNamespaces_NoService(t *testing.T) {
	view := NewView(nil, nil)

	cmd := view.loadNamespaces()

	require.NotNil(t, cmd)
	result := cmd()
	msg, ok := result.(namespacesLoadedMsg)
	require.True(t, ok)
	require.Error(t, msg.Err)
	assert.Contains(t, msg.Err.Error(), "catalog service not available")
}

func TestView_LoadNamespaces_Error(t *testing.T) {
	mock := &MockCatalogService{
		ListNamespacesFunc: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("store unreachable")
		},
	}
	view := NewView(nil, mock)

	cmd := view.loadNamespaces()
	result := cmd()

	msg, ok := result.(namespacesLoadedMsg)
	require.True(t, ok)
	assert.Error(t, msg.Err)
}

func TestView_LoadNamespaces_DocCounts(t *testing.T) {
	mock := &MockCatalogService{
		ListNamespacesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"default", "team-a", "broken"}, nil
		},
		ListDocumentsFunc: func(ctx context.Context, namespace string) ([]domain.Document, error) {
			switch namespace {
			case "default":
				return []domain.Document{{ID: "a"}, {ID: "b"}}, nil
			case "team-a":
				return []domain.Document{{ID: "c"}}, nil
			default:
				return nil, errors.New("listing failed")
			}
		},
	}
	view := NewView(nil, mock)

	result := view.loadNamespaces()()

	msg, ok := result.(namespacesLoadedMsg)
	require.True(t, ok)
	assert.Equal(t, 2, msg.DocCounts["default"])
	assert.Equal(t, 1, msg.DocCounts["team-a"])
	// Namespaces that fail to list are skipped
	_, found := msg.DocCounts["broken"]
	assert.False(t, found)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil)

	msg := tea.WindowSizeMsg{Width: 100, Height: 40}
	updated, cmd := view.Update(msg)

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
}

func TestView_Update_NamespacesLoaded(t *testing.T) {
	view := NewView(nil, nil)

	msg := loadedMsg([]string{"default", "team-a"}, map[string]int{"default": 3})
	updated, cmd := view.Update(msg)

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"default", "team-a"}, view.Namespaces())
	assert.NoError(t, view.Err())
}

func TestView_Update_NamespacesLoaded_WithError(t *testing.T) {
	view := NewView(nil, nil)

	msg := namespacesLoadedMsg{
		NamespacesLoaded: messages.NamespacesLoaded{Err: errors.New("load failed")},
	}
	view.Update(msg)

	assert.Error(t, view.Err())
}

func TestView_Update_NamespacesLoaded_ResetsSelection(t *testing.T) {
	view := NewView(nil, nil)
	view.Update(loadedMsg([]string{"a", "b", "c"}, nil))
	view.selected = 2

	// Reload with a shorter list
	view.Update(loadedMsg([]string{"a"}, nil))

	assert.Equal(t, 0, view.SelectedIndex())
}

func TestView_Update_BaseNamespacesLoaded(t *testing.T) {
	view := NewView(nil, nil)

	msg := messages.NamespacesLoaded{Namespaces: []string{"default"}}
	view.Update(msg)

	assert.Equal(t, []string{"default"}, view.Namespaces())
}

func TestView_Update_KeyDown(t *testing.T) {
	view := NewView(nil, nil)
	view.Update(loadedMsg([]string{"a", "b", "c"}, nil))

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.SelectedIndex())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, view.SelectedIndex())

	// Boundary
	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, view.SelectedIndex())
}

func TestView_Update_KeyUp(t *testing.T) {
	view := NewView(nil, nil)
	view.Update(loadedMsg([]string{"a", "b", "c"}, nil))
	view.selected = 2

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, view.SelectedIndex())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, view.SelectedIndex())

	// Boundary
	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, view.SelectedIndex())
}

func TestView_Update_KeyEnter_SelectsNamespace(t *testing.T) {
	view := NewView(nil, nil)
	view.Update(loadedMsg([]string{"default", "team-a"}, nil))
	view.selected = 1

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	result := cmd()
	selected, ok := result.(messages.NamespaceSelected)
	require.True(t, ok)
	assert.Equal(t, "team-a", selected.Namespace)
}

func TestView_Update_KeyEnter_NoNamespaces(t *testing.T) {
	view := NewView(nil, nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_Update_KeyA_GoesToIngest(t *testing.T) {
	view := NewView(nil, nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	require.NotNil(t, cmd)
	result := cmd()
	changed, ok := result.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewIngest, changed.View)
}

func TestView_Update_KeyR_Reloads(t *testing.T) {
	view := NewView(nil, &MockCatalogService{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	assert.NotNil(t, cmd)
	assert.True(t, view.loading)
}

func TestView_View_Title(t *testing.T) {
	view := NewView(nil, nil)

	output := view.View()

	assert.Contains(t, output, "Namespaces")
}

func TestView_View_Loading(t *testing.T) {
	view := NewView(nil, nil)
	view.loading = true

	output := view.View()

	assert.Contains(t, output, "Loading namespaces")
}

func TestView_View_Error(t *testing.T) {
	view := NewView(nil, nil)
	view.err = errors.New("store unreachable")

	output := view.View()

	assert.Contains(t, output, "Error")
	assert.Contains(t, output, "store unreachable")
}

func TestView_View_Empty(t *testing.T) {
	view := NewView(nil, nil)

	output := view.View()

	assert.Contains(t, output, "No namespaces yet")
}

func TestView_View_WithNamespaces(t *testing.T) {
	view := NewView(nil, nil)
	view.Update(loadedMsg([]string{"default", "team-a"}, map[string]int{
		"default": 3,
		"team-a":  1,
	}))

	output := view.View()

	assert.Contains(t, output, "default")
	assert.Contains(t, output, "team-a")
	assert.Contains(t, output, "(3 docs)")
	assert.Contains(t, output, "(1 docs)")
	assert.Contains(t, output, ">") // Selection indicator
}

func TestView_View_Help(t *testing.T) {
	view := NewView(nil, nil)

	output := view.View()

	assert.Contains(t, output, "[enter] documents")
	assert.Contains(t, output, "[a] ingest")
}

func TestView_SetDimensions(t *testing.T) {
	view := NewView(nil, nil)

	view.SetDimensions(120, 60)

	assert.Equal(t, 120, view.width)
	assert.Equal(t, 60, view.height)
	assert.True(t, view.ready)
}

func TestView_SelectedNamespace(t *testing.T) {
	view := NewView(nil, nil)
	view.Update(loadedMsg([]string{"default", "team-a"}, nil))
	view.selected = 1

	assert.Equal(t, "team-a", view.SelectedNamespace())
}

func TestView_SelectedNamespace_Empty(t *testing.T) {
	view := NewView(nil, nil)

	assert.Equal(t, "", view.SelectedNamespace())
}

func TestView_Err(t *testing.T) {
	view := NewView(nil, nil)

	assert.Nil(t, view.Err())
}
