package migration

import (
	"strings"
	"testing"
	"testing/fstest"

	"devconnector/migrations"
)

func TestLoad_OrdersAndChecksums(t *testing.T) {
	src := fstest.MapFS{
		"V10__later.sql":        {Data: []byte("SELECT 10;")},
		"V2__second.sql":        {Data: []byte("  SELECT 2;\n")},
		"V1__first.sql":         {Data: []byte("SELECT 1;")},
		"README.md":             {Data: []byte("ignored")},
		"nested/V3__nested.sql": {Data: []byte("SELECT 3;")},
	}

	migs, err := Load(src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var versions []int64
	for _, m := range migs {
		versions = append(versions, m.Version)
		if len(m.Checksum) != 64 {
			t.Fatalf("unexpected checksum %q", m.Checksum)
		}
	}
	if len(versions) != 3 || versions[0] != 1 || versions[1] != 2 || versions[2] != 10 {
		t.Fatalf("unexpected order: %v", versions)
	}
	if migs[1].SQL != "SELECT 2;" {
		t.Fatalf("sql should be trimmed, got %q", migs[1].SQL)
	}
}

func TestLoad_ChecksumIgnoresSurroundingWhitespace(t *testing.T) {
	a, err := Load(fstest.MapFS{"V1__a.sql": {Data: []byte("SELECT 1;")}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := Load(fstest.MapFS{"V1__a.sql": {Data: []byte("\n\nSELECT 1;\n")}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a[0].Checksum != b[0].Checksum {
		t.Fatalf("checksums differ")
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"duplicate": {
			"V1__a.sql":  {Data: []byte("SELECT 1;")},
			"V01__b.sql": {Data: []byte("SELECT 1;")},
		},
		"empty": {
			"V1__a.sql": {Data: []byte("   ")},
		},
	}
	for name, src := range cases {
		if _, err := Load(src); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestEmbeddedSchema(t *testing.T) {
	migs, err := Load(migrations.FS)
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if len(migs) < 3 {
		t.Fatalf("expected the users, profiles and posts migrations, got %d", len(migs))
	}

	var all strings.Builder
	for _, m := range migs {
		all.WriteString(m.SQL)
	}
	for _, table := range []string{"users", "profiles", "posts"} {
		if !strings.Contains(all.String(), "CREATE TABLE IF NOT EXISTS "+table) {
			t.Fatalf("missing table %s", table)
		}
	}
}
