package lister

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/joseph-ayodele/scan2pdf/constants"
	"github.com/joseph-ayodele/scan2pdf/internal/common"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListImagesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "c.png", "b.jpeg", "a.jpg", "D.JPG", "e.JpEg", "notes.txt", "a_ocr_txt.pdf")
	if err := os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "sub.jpg"), "nested.jpg")

	got, err := ListImages(dir)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	var names []string
	for _, p := range got {
		if !filepath.IsAbs(p) {
			t.Errorf("path %q is not absolute", p)
		}
		names = append(names, filepath.Base(p))
	}
	want := []string{"D.JPG", "a.jpg", "b.jpeg", "e.JpEg"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}

	again, err := ListImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Error("listing is not stable across calls")
	}
}

func TestListImagesScenario(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.jpg", "b.jpeg", "c.png")

	got, err := ListImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.jpeg")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestListImagesEmptyDir(t *testing.T) {
	got, err := ListImages(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no files, got %v", got)
	}
}

func TestListImagesDirectoryNotFound(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.jpg")
	touch(t, dir, "a.jpg")

	for _, p := range []string{"", filepath.Join(dir, "missing"), file} {
		_, err := ListImages(p)
		if !errors.Is(err, common.ErrDirectoryNotFound) {
			t.Errorf("ListImages(%q): expected ErrDirectoryNotFound, got %v", p, err)
		}
	}
}

func TestNewBatch(t *testing.T) {
	batch := NewBatch([]string{"/d/a.jpg", "/d/b.jpeg"})
	if len(batch) != 2 {
		t.Fatalf("len = %d", len(batch))
	}
	if batch[0].ID == batch[1].ID {
		t.Error("item IDs must be unique")
	}
	for _, item := range batch {
		if item.Status != constants.StatusPending {
			t.Errorf("status = %s, want Pending", item.Status)
		}
	}
	if batch[1].Name() != "b.jpeg" {
		t.Errorf("order not preserved: %v", batch)
	}
}

func TestSelectByName(t *testing.T) {
	batch := NewBatch([]string{"/d/a.jpg", "/d/b.jpeg", "/d/c.jpg"})

	selected, missing := SelectByName(batch, []string{"c.jpg", "a.jpg", "zzz.jpg", "a.jpg"})
	if len(selected) != 2 || selected[0].Name() != "a.jpg" || selected[1].Name() != "c.jpg" {
		t.Errorf("selected = %v", selected)
	}
	if !reflect.DeepEqual(missing, []string{"zzz.jpg"}) {
		t.Errorf("missing = %v", missing)
	}

	none, _ := SelectByName(batch, nil)
	if len(none) != 0 {
		t.Errorf("empty selection should select nothing, got %v", none)
	}
}
