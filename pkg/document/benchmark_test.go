package document_test

import (
	"context"
	"strings"
	"testing"

	"github.com/yaklabco/gorichtext/pkg/document"
)

func BenchmarkSerialize(b *testing.B) {
	fragment := strings.Repeat(
		"<h2>Heading</h2><p><strong>a</strong> <em>b</em> <span>c</span></p>"+
			"<pre><code>package main\n\nfunc main() {}\n</code></pre><div>gone</div>", 32)
	serializer := document.NewSerializer(document.Options{Separator: "\n"})
	ctx := context.Background()

	b.SetBytes(int64(len(fragment)))
	b.ResetTimer()
	for range b.N {
		if _, err := serializer.Serialize(ctx, fragment); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSerializeMarkdown(b *testing.B) {
	source := []byte(strings.Repeat("## Heading\n\nSome **bold** and _italic_ text.\n\n```go\nx := 1\n```\n\n", 32))
	serializer := document.NewSerializer(document.Options{Separator: "\n", AnnotateCodeLanguage: true})
	ctx := context.Background()

	b.ResetTimer()
	for range b.N {
		if _, err := serializer.SerializeMarkdown(ctx, source, document.FlavorGFM); err != nil {
			b.Fatal(err)
		}
	}
}
