package s3

import "testing"

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{name: "simple", path: "s3://datasets/snomed/concepts.txt", wantBucket: "datasets", wantKey: "snomed/concepts.txt"},
		{name: "nested key", path: "s3://b/a/b/c.json", wantBucket: "b", wantKey: "a/b/c.json"},
		{name: "missing key", path: "s3://bucket", wantErr: true},
		{name: "not s3", path: "/tmp/file.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := SplitPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if bucket != tt.wantBucket || key != tt.wantKey {
				t.Fatalf("got (%q, %q), want (%q, %q)", bucket, key, tt.wantBucket, tt.wantKey)
			}
		})
	}
}
