package papers

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ayush/paper-studio/internal/api"
	"github.com/ayush/paper-studio/internal/models"
	"github.com/ayush/paper-studio/internal/sections"
	"github.com/ayush/paper-studio/internal/store"
)

func newStore(t *testing.T) (*Store, store.Blob) {
	t.Helper()
	blobs, err := store.NewFSStore(t.TempDir())
	require.NoError(t, err)
	reg, err := sections.Default()
	require.NoError(t, err)
	return NewStore(blobs, reg, zap.NewNop()), blobs
}

func TestCreate_PicksFirstFreeName(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	first, err := s.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Untitled Paper 1", first)

	second, err := s.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Untitled Paper 2", second)

	_, err = s.Delete(ctx, first)
	require.NoError(t, err)
	third, err := s.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Untitled Paper 1", third)

	doc, err := s.Get(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, second, doc.ID)
	assert.Equal(t, models.StatusEmpty, doc.Sections["idea"].Status)
	assert.Equal(t, models.StatusLocked, doc.Sections["title"].Status)
	assert.Len(t, doc.Sections, 10)
}

func TestSaveThenGet_RoundTrips(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	doc := &models.Document{
		ID:           "ignored",
		DocumentName: "also ignored",
		Sections: map[string]models.SectionState{
			"title":   {Content: "Sparse Attention", Status: models.StatusCompleted},
			"methods": {Content: "We {{ran}}【edit note: ran twice】 it.", Status: "custom-status"},
		},
	}
	require.NoError(t, s.Save(ctx, "Draft", doc))

	got, err := s.Get(ctx, "Draft")
	require.NoError(t, err)
	want := &models.Document{ID: "Draft", DocumentName: "Draft", Sections: doc.Sections}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}
}

func TestGet_Missing(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGet_CorruptFallsBackToDefault(t *testing.T) {
	s, blobs := newStore(t)
	ctx := context.Background()

	require.NoError(t, blobs.Put(ctx, "documents/Broken.json", []byte("{not json")))
	require.NoError(t, blobs.Put(ctx, "documents/Empty.json", nil))

	for _, name := range []string{"Broken", "Empty"} {
		doc, err := s.Get(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, name, doc.DocumentName)
		assert.Len(t, doc.Sections, 10)
		assert.Equal(t, "", doc.Content("title"))
	}
}

func TestRename(t *testing.T) {
	s, blobs := newStore(t)
	ctx := context.Background()

	doc := &models.Document{Sections: map[string]models.SectionState{
		"idea": {Content: "I", Status: models.StatusCompleted},
	}}
	require.NoError(t, s.Save(ctx, "Old", doc))

	name, err := s.Rename(ctx, "Old", `  New: "Draft"/v2?  `)
	require.NoError(t, err)
	assert.Equal(t, "New Draftv2", name)

	exists, err := blobs.Exists(ctx, "documents/Old.json")
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := s.Get(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, name, got.ID)
	assert.Equal(t, name, got.DocumentName)
	assert.Equal(t, "I", got.Content("idea"))
}

func TestRename_Conflict(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	a := &models.Document{Sections: map[string]models.SectionState{"idea": {Content: "A"}}}
	b := &models.Document{Sections: map[string]models.SectionState{"idea": {Content: "B"}}}
	require.NoError(t, s.Save(ctx, "A", a))
	require.NoError(t, s.Save(ctx, "B", b))

	_, err := s.Rename(ctx, "A", "B")
	require.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, api.ErrConflict)

	gotA, err := s.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", gotA.Content("idea"))
	gotB, err := s.Get(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "B", gotB.Content("idea"))
}

func TestRename_EdgeCases(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "Same", &models.Document{}))

	name, err := s.Rename(ctx, "Same", " Same ")
	require.NoError(t, err)
	assert.Equal(t, "Same", name)

	_, err = s.Rename(ctx, "Same", `/\:*`)
	assert.ErrorIs(t, err, api.ErrMissingParam)

	_, err = s.Rename(ctx, "Ghost", "Other")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestList_SortedByName(t *testing.T) {
	s, blobs := newStore(t)
	ctx := context.Background()

	for _, n := range []string{"Zeta", "Alpha", "Mid"} {
		require.NoError(t, s.Save(ctx, n, &models.Document{}))
	}
	require.NoError(t, blobs.Put(ctx, "documents/notes.txt", []byte("x")))

	got, err := s.List(ctx)
	require.NoError(t, err)
	want := []models.DocumentSummary{
		{ID: "Alpha", DocumentName: "Alpha"},
		{ID: "Mid", DocumentName: "Mid"},
		{ID: "Zeta", DocumentName: "Zeta"},
	}
	assert.Equal(t, want, got)
}

func TestList_IncludesDotPrefixedNames(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	for _, n := range []string{"Visible", ".hidden", "../../etc/passwd"} {
		require.NoError(t, s.Save(ctx, n, &models.Document{}))
	}

	got, err := s.List(ctx)
	require.NoError(t, err)
	want := []models.DocumentSummary{
		{ID: "....etcpasswd", DocumentName: "....etcpasswd"},
		{ID: ".hidden", DocumentName: ".hidden"},
		{ID: "Visible", DocumentName: "Visible"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestNamesCannotEscapePrefix(t *testing.T) {
	s, blobs := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "../../etc/passwd", &models.Document{}))
	exists, err := blobs.Exists(ctx, "documents/....etcpasswd.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "ab", Sanitize("a\x00\tb"))
	assert.Equal(t, "Report 2024", Sanitize(" Report<> 2024| "))
	assert.Equal(t, "", Sanitize(`  \/  `))
}
