package lister

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/joseph-ayodele/scan2pdf/internal/common"
)

func TestWatchEmitsDebouncedGroups(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groups, _, err := Watch(ctx, WatchConfig{Dir: dir, Debounce: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	touch(t, dir, "b.jpeg", "notes.txt", "a.JPG", "a_ocr_txt.pdf")

	select {
	case g := <-groups:
		want := []string{filepath.Join(dir, "a.JPG"), filepath.Join(dir, "b.jpeg")}
		if !reflect.DeepEqual(g, want) {
			t.Errorf("group = %v, want %v", g, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch group")
	}

	cancel()
	for range groups {
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, _, err := Watch(context.Background(), WatchConfig{Dir: filepath.Join(t.TempDir(), "nope")})
	if !errors.Is(err, common.ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound, got %v", err)
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	groups, errs, err := Watch(ctx, WatchConfig{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	deadline := time.After(5 * time.Second)
	for groups != nil || errs != nil {
		select {
		case _, ok := <-groups:
			if !ok {
				groups = nil
			}
		case _, ok := <-errs:
			if !ok {
				errs = nil
			}
		case <-deadline:
			t.Fatal("channels not closed after cancel")
		}
	}
	_ = os.Remove(dir)
}
