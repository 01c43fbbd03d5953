package library

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/cutroom/cutroom/internal/db"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	database, err := db.New(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("db.New() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewRepository(database.Conn())
}

func TestAssetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset := &Asset{
		ID:        "a1",
		Filename:  "a1.mp4",
		Path:      "/media/uploads/a1.mp4",
		MediaType: "video",
		Duration:  12.5,
		HasAudio:  true,
		Size:      1 << 20,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := repo.CreateAsset(ctx, asset); err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}

	got, err := repo.GetAsset(ctx, "a1")
	if err != nil {
		t.Fatalf("GetAsset() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetAsset() = nil, want asset")
	}
	if got.Filename != asset.Filename || got.MediaType != asset.MediaType {
		t.Errorf("asset = %+v, want %+v", got, asset)
	}
	if got.Duration != 12.5 || !got.HasAudio || got.Size != 1<<20 {
		t.Errorf("asset fields = %v/%v/%v, want 12.5/true/%d", got.Duration, got.HasAudio, got.Size, 1<<20)
	}
	if !got.CreatedAt.Equal(asset.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, asset.CreatedAt)
	}
}

func TestGetAsset_Missing(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetAsset(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetAsset() error = %v", err)
	}
	if got != nil {
		t.Fatalf("GetAsset() = %+v, want nil for unknown id", got)
	}
}

func TestListAssets_NewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"old", "mid", "new"} {
		asset := &Asset{
			ID: id, Filename: id + ".mp4", Path: "/u/" + id + ".mp4",
			MediaType: "video", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.CreateAsset(ctx, asset); err != nil {
			t.Fatalf("CreateAsset(%s) error = %v", id, err)
		}
	}

	assets, err := repo.ListAssets(ctx)
	if err != nil {
		t.Fatalf("ListAssets() error = %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("len(assets) = %d, want 3", len(assets))
	}
	if assets[0].ID != "new" || assets[2].ID != "old" {
		t.Errorf("order = [%s %s %s], want newest first", assets[0].ID, assets[1].ID, assets[2].ID)
	}
}

func TestRenderLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := &Render{
		ID:         "r1",
		ProjectID:  "p1",
		Profile:    "export",
		Status:     RenderStatusPending,
		OutputPath: "/media/previews/export_p1.mp4",
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		UpdatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	if err := repo.CreateRender(ctx, rec); err != nil {
		t.Fatalf("CreateRender() error = %v", err)
	}

	got, err := repo.GetRender(ctx, "r1")
	if err != nil {
		t.Fatalf("GetRender() error = %v", err)
	}
	if got.Status != RenderStatusPending || got.Error != "" {
		t.Errorf("fresh render = %+v, want pending with no error", got)
	}

	if err := repo.UpdateRenderStatus(ctx, "r1", RenderStatusFailed, "exit status 1"); err != nil {
		t.Fatalf("UpdateRenderStatus() error = %v", err)
	}

	got, err = repo.GetRender(ctx, "r1")
	if err != nil {
		t.Fatalf("GetRender() after update error = %v", err)
	}
	if got.Status != RenderStatusFailed {
		t.Errorf("Status = %q, want failed", got.Status)
	}
	if got.Error != "exit status 1" {
		t.Errorf("Error = %q, want diagnostic preserved", got.Error)
	}
}

func TestListRenders_Limit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		rec := &Render{
			ID:        string(rune('a' + i)),
			ProjectID: "p1",
			Profile:   "preview",
			Status:    RenderStatusCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.CreateRender(ctx, rec); err != nil {
			t.Fatalf("CreateRender() error = %v", err)
		}
	}

	renders, err := repo.ListRenders(ctx, 2)
	if err != nil {
		t.Fatalf("ListRenders() error = %v", err)
	}
	if len(renders) != 2 {
		t.Fatalf("len(renders) = %d, want 2", len(renders))
	}
	if renders[0].ID != "e" {
		t.Errorf("first render = %s, want e (newest)", renders[0].ID)
	}
}
