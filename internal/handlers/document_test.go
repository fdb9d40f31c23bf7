package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarchant/dialogue-state/pkg/actions"
	"github.com/lmarchant/dialogue-state/pkg/conditions"
	"github.com/lmarchant/dialogue-state/pkg/storage"
	"github.com/lmarchant/dialogue-state/pkg/vars"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func seedDocument(t *testing.T, store *storage.MockStorage) *vars.Document {
	t.Helper()

	doc := vars.NewDocument("campaign")
	quests := doc.Root.EnsureGroup("quests")
	quest := vars.NewQuest("fetch_sword", "Fetch the Sword")
	quest.AddObjective(vars.NewObjective("find_it", "Find the sword", 3))
	quests.AddChild(quest)
	doc.Root.AddChild(vars.NewInt("gold", 50))
	doc.Root.AddChild(vars.NewBool("met_blacksmith", false))

	require.NoError(t, store.SaveDocument(context.Background(), doc.ID, doc))
	return doc
}

func TestDocumentHandler_CreateAndRead(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewDocumentHandler(store, testLogger())

	body, err := json.Marshal(CreateDocumentRequest{Name: "new campaign"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var created vars.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "new campaign", created.Name)
	assert.NotEqual(t, uuid.Nil, created.ID)

	req = httptest.NewRequest(http.MethodGet, "/v1/documents/"+created.ID.String(), nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var loaded vars.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, created.ID, loaded.ID)
}

func TestDocumentHandler_CreateRejectsDuplicateSiblingKeys(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewDocumentHandler(store, testLogger())

	root := vars.NewGroup("")
	root.AddChild(vars.NewInt("gold", 1))
	root.AddChild(vars.NewInt("Gold", 2))

	body, err := json.Marshal(CreateDocumentRequest{Root: root})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate sibling key")
}

func TestDocumentHandler_ReadMissing(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewDocumentHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocumentHandler_InvalidID(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewDocumentHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/not-a-uuid", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHandler_Evaluate(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewDocumentHandler(store, testLogger())
	doc := seedDocument(t, store)

	tests := []struct {
		name       string
		operations []conditions.Operation
		want       bool
	}{
		{
			name: "gold over threshold",
			operations: []conditions.Operation{
				{Ref: vars.Ref{Path: "gold"}, Comparator: conditions.GreaterOrEqual, IntValue: 50},
			},
			want: true,
		},
		{
			name: "all-of short circuits",
			operations: []conditions.Operation{
				{Ref: vars.Ref{Path: "met_blacksmith"}, Comparator: conditions.IsTrue},
				{Ref: vars.Ref{Path: "gold"}, Comparator: conditions.GreaterOrEqual, IntValue: 50},
			},
			want: false,
		},
		{
			name: "unresolvable reference fails closed",
			operations: []conditions.Operation{
				{Ref: vars.Ref{Path: "no/such/leaf"}, Comparator: conditions.Equal, IntValue: 1},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(EvaluateRequest{Operations: tt.operations})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/v1/documents/"+doc.ID.String()+"/evaluate", bytes.NewReader(body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			var resp EvaluateResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Result)
			assert.Len(t, resp.Operations, len(tt.operations))
		})
	}
}

func TestDocumentHandler_ApplyPersists(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewDocumentHandler(store, testLogger())
	doc := seedDocument(t, store)

	body, err := json.Marshal(ApplyRequest{
		Actions: []actions.Action{
			{Kind: actions.IncInt, Ref: vars.Ref{Path: "gold"}, IntValue: 25},
			{Kind: actions.SetBool, Ref: vars.Ref{Path: "met_blacksmith"}, BoolValue: true},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/documents/"+doc.ID.String()+"/apply", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	reloaded, err := store.LoadDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)

	gold := reloaded.Root.FindByPath("gold").(*vars.Leaf)
	assert.Equal(t, 75, gold.Int())
	met := reloaded.Root.FindByPath("met_blacksmith").(*vars.Leaf)
	assert.True(t, met.Bool())
}

func TestDocumentHandler_Delete(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewDocumentHandler(store, testLogger())
	doc := seedDocument(t, store)

	req := httptest.NewRequest(http.MethodDelete, "/v1/documents/"+doc.ID.String(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	loaded, err := store.LoadDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
