package plugin

import (
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestScanFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"ceph-mgr.asok":          &fstest.MapFile{},
		"sub/ceph-mgr.2.asok":    &fstest.MapFile{},
		"sub/other.asok":         &fstest.MapFile{},
		"sub/deep/ceph-mgr.note": &fstest.MapFile{},
	}
	match := func(name string) bool {
		return strings.HasPrefix(name, "ceph-mgr") && strings.HasSuffix(name, ".asok")
	}

	got := slices.Collect(ScanFiles(fsys, match))
	slices.Sort(got)

	want := []string{"ceph-mgr.asok", "sub/ceph-mgr.2.asok"}
	if !cmp.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScanFilesIsRestartable(t *testing.T) {
	fsys := fstest.MapFS{
		"a.log": &fstest.MapFile{},
		"b.log": &fstest.MapFile{},
	}
	seq := ScanFiles(fsys, func(string) bool { return true })

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !cmp.Equal(first, second) {
		t.Errorf("second pass %v differs from first pass %v", second, first)
	}
}

func TestScanFilesStopsEarly(t *testing.T) {
	fsys := fstest.MapFS{
		"a.log": &fstest.MapFile{},
		"b.log": &fstest.MapFile{},
		"c.log": &fstest.MapFile{},
	}

	var got []string
	for path := range ScanFiles(fsys, func(string) bool { return true }) {
		got = append(got, path)
		break
	}
	if len(got) != 1 {
		t.Errorf("got %d paths after break, want 1", len(got))
	}
}
