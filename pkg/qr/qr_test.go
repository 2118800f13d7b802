package qr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	token := Encode(42, 7, "Dina Putri", "dina@example.com")
	want := "REG:42|EVT:7|NAME:Dina Putri|EMAIL:dina@example.com"
	if token != want {
		t.Errorf("expected %q, got %q", want, token)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a := Encode(1, 2, "A", "a@b.c")
	b := Encode(1, 2, "A", "a@b.c")
	if a != b {
		t.Errorf("expected identical tokens, got %q and %q", a, b)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    uint
		wantErr bool
	}{
		{name: "full token", token: Encode(42, 7, "Dina", "dina@example.com"), want: 42},
		{name: "bare id", token: "42", want: 42},
		{name: "padded", token: "  REG:3|EVT:1|NAME:A|EMAIL:a@b.c \n", want: 3},
		{name: "empty", token: "", wantErr: true},
		{name: "garbage", token: "EVT:7", wantErr: true},
		{name: "non numeric id", token: "REG:abc|EVT:7", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got id %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	got := FileName(5, "user@example.com")

	if !strings.HasPrefix(got, "registration_5_") {
		t.Errorf("expected registration prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ".png") {
		t.Errorf("expected .png suffix, got %q", got)
	}
	if base := strings.TrimSuffix(got, ".png"); strings.ContainsAny(base, "@. ") {
		t.Errorf("expected sanitized email in %q", got)
	}

	// Same inputs must always map to the same artifact name.
	if again := FileName(5, "user@example.com"); again != got {
		t.Errorf("expected stable name, got %q and %q", got, again)
	}

	// Case differences in the email collapse to the same file.
	if upper := FileName(5, "USER@EXAMPLE.COM"); upper != got {
		t.Errorf("expected case-insensitive name, got %q and %q", got, upper)
	}
}

func TestMaterialize(t *testing.T) {
	png, err := Materialize(Encode(1, 1, "X", "x@y.z"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(png) == 0 {
		t.Fatal("expected non-empty png bytes")
	}
	// PNG magic number
	if png[0] != 0x89 || string(png[1:4]) != "PNG" {
		t.Errorf("expected png header, got % x", png[:4])
	}
}

func TestDiskStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(filepath.Join(dir, "qrcodes"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if store.Exists("") {
		t.Error("empty path should not exist")
	}

	path, err := store.Save("registration_1_a-b-c.png", []byte("fake"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !store.Exists(path) {
		t.Errorf("expected %s to exist", path)
	}

	data, err := store.Read(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(data) != "fake" {
		t.Errorf("expected stored bytes back, got %q", data)
	}

	// Save again overwrites in place.
	path2, err := store.Save("registration_1_a-b-c.png", []byte("fresh"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if path2 != path {
		t.Errorf("expected same path on overwrite, got %q and %q", path, path2)
	}
	data, _ = os.ReadFile(path2)
	if string(data) != "fresh" {
		t.Errorf("expected overwritten bytes, got %q", data)
	}
}
