package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/domain"
	"github.com/danieljhkim/assetgate/internal/sync"
)

func TestStatuses(t *testing.T) {
	env := newTestEnv(t)
	ws := env.open(t)
	_, err := env.engine.Toggle(ws, &ToggleRequest{Kind: catalog.KindCollection, Path: backendPath})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(env.local(testsPath), []byte("edited\n"), 0644))

	statuses := env.engine.Statuses(ws, ws.Session.Resolution().Views(catalog.KindPrompt))
	require.Len(t, statuses, 2)

	byPath := map[string]AssetStatus{}
	for _, s := range statuses {
		byPath[s.View.Path] = s
	}
	assert.Equal(t, sync.StatusMissing, byPath[reviewPath].Local)
	assert.True(t, byPath[reviewPath].InSync())
	assert.Equal(t, sync.StatusDiff, byPath[testsPath].Local)
	assert.False(t, byPath[testsPath].InSync())

	colls := env.engine.Statuses(ws, ws.Session.Resolution().Views(catalog.KindCollection))
	require.Len(t, colls, 1)
	assert.Equal(t, sync.StatusNotApplicable, colls[0].Local)
	assert.True(t, colls[0].InSync())
}

func TestStatuses_RecordsErrors(t *testing.T) {
	env := newTestEnv(t)
	ws := env.open(t)
	writeFiles(t, env.paths.GitHub, map[string]string{reviewPath: "# Review\n"})
	require.NoError(t, os.Remove(filepath.Join(env.content, reviewPath)))

	statuses := env.engine.Statuses(ws, ws.Session.Resolution().Views(catalog.KindPrompt))
	var review AssetStatus
	for _, s := range statuses {
		if s.View.Path == reviewPath {
			review = s
		}
	}
	assert.NotEmpty(t, review.Error)
	assert.False(t, review.InSync())
}

func TestAssetStatus_InSync(t *testing.T) {
	tests := []struct {
		name      string
		effective bool
		local     sync.LocalStatus
		want      bool
	}{
		{name: "enabled and same", effective: true, local: sync.StatusSame, want: true},
		{name: "enabled and missing", effective: true, local: sync.StatusMissing, want: false},
		{name: "enabled and modified", effective: true, local: sync.StatusDiff, want: false},
		{name: "disabled and missing", effective: false, local: sync.StatusMissing, want: true},
		{name: "disabled and present", effective: false, local: sync.StatusSame, want: false},
		{name: "not applicable", effective: false, local: sync.StatusNotApplicable, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := AssetStatus{View: domain.AssetView{Effective: tt.effective}, Local: tt.local}
			assert.Equal(t, tt.want, s.InSync())
		})
	}
}
