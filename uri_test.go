package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURIBuilder(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		build func(b *URIBuilder)
		want  string
	}{
		{
			name:  "path only",
			build: func(b *URIBuilder) { b.WritePath("models/", "gemini-1.5-flash") },
			want:  "models/gemini-1.5-flash",
		},
		{
			name: "first param uses question mark",
			build: func(b *URIBuilder) {
				b.WritePath("models")
				b.WriteQueryParam("pageSize", "10")
				b.WriteQueryParam("key", "k")
			},
			want: "models?pageSize=10&key=k",
		},
		{
			name: "optional param skipped when empty",
			build: func(b *URIBuilder) {
				b.WritePath("files")
				b.WriteOptionalQueryParam("pageToken", "")
				b.WriteQueryParam("key", "k")
			},
			want: "files?key=k",
		},
		{
			name: "values are escaped",
			build: func(b *URIBuilder) {
				b.WritePath("models")
				b.WriteQueryParam("pageToken", "a b&c=d")
			},
			want: "models?pageToken=a+b%26c%3Dd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var b URIBuilder
			tt.build(&b)
			assert.Equal(t, tt.want, b.String())
		})
	}
}

func TestStripQuery(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "https://example.com/upload", stripQuery("https://example.com/upload?upload_id=1&key=secret"))
	assert.Equal(t, "https://example.com/upload", stripQuery("https://example.com/upload"))
}
